package api

import (
	"context"
	"fmt"

	"github.com/matthieukhl/shopctl/internal/models"
)

// AuthService handles login, logout and the current-user profile.
type AuthService struct {
	client *Client
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *models.User `json:"user"`
}

// Login authenticates against the API and stores the resulting
// session. Any previously stored session is replaced.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	var out loginResponse
	raw, err := s.client.do(ctx, request{method: "POST", path: "/auth/login/", body: input, noAuth: true})
	if err != nil {
		return nil, err
	}
	if err := decodeInto(raw, &out); err != nil {
		return nil, err
	}
	if out.Access == "" || out.Refresh == "" {
		return nil, fmt.Errorf("login response missing tokens")
	}

	if err := s.client.session.SetAuth(out.User, out.Access, out.Refresh); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout revokes the refresh token server-side and clears the local
// session. The local session is cleared even when the revocation call
// fails, so a broken network never leaves credentials behind.
func (s *AuthService) Logout(ctx context.Context) error {
	refreshToken := s.client.session.RefreshToken()
	var revokeErr error
	if refreshToken != "" {
		revokeErr = s.client.post(ctx, "/auth/logout/", map[string]string{"refresh": refreshToken}, nil)
	}
	if err := s.client.session.Logout(); err != nil {
		return err
	}
	return revokeErr
}

// Me fetches the current user's profile.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.get(ctx, "/auth/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type UpdateMeInput struct {
	Name  string
	Email string

	// Avatar is uploaded as a multipart file part when set.
	AvatarFilename string
	Avatar         []byte
}

// UpdateMe patches the current user's profile, using a multipart body
// so an avatar image can ride along.
func (s *AuthService) UpdateMe(ctx context.Context, input UpdateMeInput) (*models.User, error) {
	f := &form{fields: map[string]string{}, files: map[string]formFile{}}
	if input.Name != "" {
		f.fields["name"] = input.Name
	}
	if input.Email != "" {
		f.fields["email"] = input.Email
	}
	if len(input.Avatar) > 0 {
		name := input.AvatarFilename
		if name == "" {
			name = "avatar"
		}
		f.files["avatar"] = formFile{Name: name, Data: input.Avatar}
	}

	var user models.User
	if err := s.client.patchForm(ctx, "/auth/me/", f, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if err := checkInput(input); err != nil {
		return err
	}
	return s.client.post(ctx, "/auth/change-password/", input, nil)
}
