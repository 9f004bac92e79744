package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matthieukhl/shopctl/internal/session"
)

// DefaultTimeout is the global request timeout; anything slower is
// classified as a network failure.
const DefaultTimeout = 60 * time.Second

// Client is the session-aware request pipeline every API call goes
// through. It attaches the bearer token, transparently refreshes it on
// a 401 and resends the original request exactly once, and tears the
// session down when the refresh token itself is rejected.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store

	// refresh coalesces concurrent token refreshes into a single
	// in-flight call shared by all waiters.
	refresh singleflight.Group

	Auth          *AuthService
	Products      *ProductsService
	Orders        *OrdersService
	Customers     *CustomersService
	Coupons       *CouponsService
	Categories    *CategoriesService
	Attributes    *AttributesService
	Notifications *NotificationsService
	Dashboard     *DashboardService
}

// NewClient builds a client for the API rooted at baseURL. A zero
// timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, sess *session.Store) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: trimTrailingSlash(baseURL),
		http: &http.Client{
			Timeout: timeout,
		},
		session: sess,
	}

	c.Auth = &AuthService{client: c}
	c.Products = &ProductsService{client: c}
	c.Orders = &OrdersService{client: c}
	c.Customers = &CustomersService{client: c}
	c.Coupons = &CouponsService{client: c}
	c.Categories = &CategoriesService{client: c}
	c.Attributes = &AttributesService{client: c}
	c.Notifications = &NotificationsService{client: c}
	c.Dashboard = &DashboardService{client: c}
	return c
}

// Session exposes the store backing this client.
func (c *Client) Session() *session.Store {
	return c.session
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// request describes one API call. Retrying copies the descriptor and
// bumps attempt, so retry state is never shared between requests.
type request struct {
	method  string
	path    string
	query   url.Values
	body    any   // JSON-encoded when non-nil
	form    *form // multipart payload, mutually exclusive with body
	noAuth  bool  // skip bearer credential (login, refresh)
	attempt int   // times this request has already been sent
}

// form is a rebuildable multipart payload. File contents are held as
// bytes so a retried request can re-encode the body.
type form struct {
	fields map[string]string
	files  map[string]formFile
}

type formFile struct {
	Name string
	Data []byte
}

func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	httpReq, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, wrapNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapNetworkError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !r.noAuth && r.attempt == 0 {
		if c.session.RefreshToken() == "" {
			return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, decodeAPIError(resp.StatusCode, raw))
		}
		if err := c.refreshAccessToken(ctx); err != nil {
			return nil, err
		}

		retry := r
		retry.attempt++
		return c.do(ctx, retry)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp.StatusCode, raw)
	}
	return raw, nil
}

// refreshAccessToken exchanges the stored refresh token for a new
// access token. Concurrent callers share one in-flight refresh. Any
// failure destroys the session entirely: the caller must log in again.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	_, err, _ := c.refresh.Do("token-refresh", func() (any, error) {
		refreshToken := c.session.RefreshToken()
		if refreshToken == "" {
			return nil, ErrNotAuthenticated
		}

		payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal refresh request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token/refresh/", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create refresh request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, wrapNetworkError(err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, wrapNetworkError(err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, decodeAPIError(resp.StatusCode, raw)
		}

		var out struct {
			Access string `json:"access"`
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("failed to decode refresh response: %w", err)
		}
		if out.Access == "" {
			return nil, fmt.Errorf("refresh response missing access token")
		}

		// Visible to every subsequent request immediately.
		if err := c.session.SetAccessToken(out.Access); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		_ = c.session.Logout()
		return fmt.Errorf("%w: %v", ErrAuthInvalid, err)
	}
	return nil
}

func (c *Client) newHTTPRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	contentType := ""

	switch {
	case r.form != nil:
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)
		for field, value := range r.form.fields {
			if err := writer.WriteField(field, value); err != nil {
				return nil, fmt.Errorf("failed to encode form field %s: %w", field, err)
			}
		}
		for field, file := range r.form.files {
			part, err := writer.CreateFormFile(field, file.Name)
			if err != nil {
				return nil, fmt.Errorf("failed to encode form file %s: %w", field, err)
			}
			if _, err := part.Write(file.Data); err != nil {
				return nil, fmt.Errorf("failed to encode form file %s: %w", field, err)
			}
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("failed to finalize form: %w", err)
		}
		body = buf
		contentType = writer.FormDataContentType()
	case r.body != nil:
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !r.noAuth {
		if token := c.session.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// get issues a GET and decodes the response into out (which may be
// nil to discard the body).
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := c.do(ctx, request{method: http.MethodPost, path: path, body: body})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	raw, err := c.do(ctx, request{method: http.MethodPut, path: path, body: body})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	raw, err := c.do(ctx, request{method: http.MethodPatch, path: path, body: body})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: path})
	return err
}

func (c *Client) postForm(ctx context.Context, path string, f *form, out any) error {
	raw, err := c.do(ctx, request{method: http.MethodPost, path: path, form: f})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (c *Client) patchForm(ctx context.Context, path string, f *form, out any) error {
	raw, err := c.do(ctx, request{method: http.MethodPatch, path: path, form: f})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// raw issues a GET and returns the body bytes untouched, for binary
// downloads such as the order export.
func (c *Client) raw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query})
}

// decodeInto unmarshals a response body, unwrapping the
// {"success": true, "data": ...} envelope some endpoints use.
func decodeInto(raw []byte, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}

	var envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Success != nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeList tolerates every list shape the backend produces: a bare
// array, a {count, results} page, or either of those under a "data"
// envelope.
func decodeList[T any](raw []byte) ([]T, int, error) {
	var bare []T
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, len(bare), nil
	}

	var page struct {
		Count   int             `json:"count"`
		Results []T             `json:"results"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, 0, fmt.Errorf("failed to decode list response: %w", err)
	}
	if page.Results != nil {
		count := page.Count
		if count < len(page.Results) {
			count = len(page.Results)
		}
		return page.Results, count, nil
	}
	if len(page.Data) > 0 {
		return decodeList[T](page.Data)
	}
	return nil, 0, nil
}

// ListOptions are the common query parameters for paginated list
// endpoints.
type ListOptions struct {
	Search   string
	Page     int
	PageSize int
	Ordering string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(o.PageSize))
	}
	if o.Ordering != "" {
		q.Set("ordering", o.Ordering)
	}
	return q
}
