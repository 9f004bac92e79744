package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/shopctl/internal/models"
	"github.com/matthieukhl/shopctl/internal/session"
)

func newTestSession(t *testing.T, access, refresh string) *session.Store {
	t.Helper()

	store, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	if access != "" || refresh != "" {
		require.NoError(t, store.SetAuth(&models.User{ID: "u1", Name: "Test", Email: "test@example.com"}, access, refresh))
	}
	return store
}

func TestRefreshOn401AndRetryOnce(t *testing.T) {
	var meHits, refreshHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshHits.Add(1)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refresh"])
		json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
	})
	mux.HandleFunc("GET /auth/me/", func(w http.ResponseWriter, r *http.Request) {
		meHits.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
			return
		}
		json.NewEncoder(w).Encode(models.User{ID: "u1", Name: "Test", Email: "test@example.com"})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestSession(t, "stale", "refresh-1")
	client := NewClient(ts.URL, 0, store)

	user, err := client.Auth.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)

	assert.Equal(t, int32(2), meHits.Load(), "original request should be resent exactly once")
	assert.Equal(t, int32(1), refreshHits.Load())
	assert.Equal(t, "fresh", store.AccessToken())
	assert.Equal(t, "refresh-1", store.RefreshToken(), "refresh token is untouched by a refresh")
}

func TestRefreshFailureDestroysSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "refresh token revoked"})
	})
	mux.HandleFunc("GET /auth/me/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestSession(t, "stale", "revoked")
	client := NewClient(ts.URL, 0, store)

	_, err := client.Auth.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthInvalid)
	assert.False(t, store.Authenticated(), "failed refresh must tear the session down")
}

func TestPersistent401DoesNotLoop(t *testing.T) {
	var meHits, refreshHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshHits.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
	})
	mux.HandleFunc("GET /auth/me/", func(w http.ResponseWriter, r *http.Request) {
		meHits.Add(1)
		// Still 401 even with the fresh token.
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestSession(t, "stale", "refresh-1")
	client := NewClient(ts.URL, 0, store)

	_, err := client.Auth.Me(context.Background())
	require.Error(t, err)

	assert.Equal(t, int32(2), meHits.Load(), "a retried request must not refresh again")
	assert.Equal(t, int32(1), refreshHits.Load())
}

func TestUnauthenticated401ShortCircuits(t *testing.T) {
	var refreshHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshHits.Add(1)
	})
	mux.HandleFunc("GET /auth/me/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestSession(t, "", "")
	client := NewClient(ts.URL, 0, store)

	_, err := client.Auth.Me(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, int32(0), refreshHits.Load(), "no refresh token means no refresh attempt")
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	var refreshHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshHits.Add(1)
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
	})
	mux.HandleFunc("GET /auth/me/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(models.User{ID: "u1"})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestSession(t, "stale", "refresh-1")
	client := NewClient(ts.URL, 0, store)

	const workers = 5
	var (
		start = make(chan struct{})
		wg    sync.WaitGroup
		errs  = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = client.Auth.Me(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, int32(1), refreshHits.Load(), "concurrent refreshes must coalesce")
}

func TestErrorTaxonomy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders/missing/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "order not found"})
	})
	mux.HandleFunc("DELETE /categories/parent/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "category has children"})
	})
	mux.HandleFunc("POST /admins/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "validation failed",
			"errors":  map[string][]string{"email": {"already taken"}},
		})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestSession(t, "token", "refresh-1")
	client := NewClient(ts.URL, 0, store)
	ctx := context.Background()

	_, err := client.Orders.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = client.Categories.Delete(ctx, "parent")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = client.Customers.CreateAdmin(ctx, AdminInput{
		Name: "Dup", Email: "dup@example.com", Password: "password1", Role: "admin",
	})
	assert.ErrorIs(t, err, ErrValidation)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"already taken"}, apiErr.Fields["email"])
}

func TestTimeoutIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	store := newTestSession(t, "token", "refresh-1")
	client := NewClient(ts.URL, 50*time.Millisecond, store)

	_, err := client.Auth.Me(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout)
}

func TestDecodeListShapes(t *testing.T) {
	type item struct {
		ID string `json:"id"`
	}

	tests := []struct {
		name      string
		raw       string
		wantLen   int
		wantCount int
	}{
		{"bare array", `[{"id":"a"},{"id":"b"}]`, 2, 2},
		{"paginated", `{"count":10,"results":[{"id":"a"}]}`, 1, 10},
		{"enveloped array", `{"success":true,"data":[{"id":"a"}]}`, 1, 1},
		{"enveloped page", `{"success":true,"data":{"count":3,"results":[{"id":"a"}]}}`, 1, 3},
		{"empty object", `{}`, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, count, err := decodeList[item]([]byte(tt.raw))
			require.NoError(t, err)
			assert.Len(t, items, tt.wantLen)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestValidationRunsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()

	store := newTestSession(t, "token", "refresh-1")
	client := NewClient(ts.URL, 0, store)

	_, err := client.Customers.CreateAdmin(context.Background(), AdminInput{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int32(0), hits.Load())
}
