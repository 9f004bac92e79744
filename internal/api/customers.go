package api

import (
	"context"

	"github.com/matthieukhl/shopctl/internal/models"
)

// CustomersService covers storefront customers plus the admin and
// role management sub-resources.
type CustomersService struct {
	client *Client
}

func (s *CustomersService) List(ctx context.Context, opts ListOptions) ([]models.Customer, int, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/customers/", query: opts.values()})
	if err != nil {
		return nil, 0, err
	}
	return decodeList[models.Customer](raw)
}

func (s *CustomersService) Get(ctx context.Context, id string) (*models.Customer, error) {
	var c models.Customer
	if err := s.client.get(ctx, "/customers/"+id+"/", nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ToggleBlock flips the customer's blocked flag and returns the new
// state.
func (s *CustomersService) ToggleBlock(ctx context.Context, id string) (*models.Customer, error) {
	var c models.Customer
	if err := s.client.post(ctx, "/customers/"+id+"/block/", nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CustomersService) Admins(ctx context.Context, opts ListOptions) ([]models.Admin, int, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/admins/", query: opts.values()})
	if err != nil {
		return nil, 0, err
	}
	return decodeList[models.Admin](raw)
}

type AdminInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

func (s *CustomersService) CreateAdmin(ctx context.Context, input AdminInput) (*models.Admin, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var a models.Admin
	if err := s.client.post(ctx, "/admins/", input, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *CustomersService) Roles(ctx context.Context) ([]models.Role, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/roles/"})
	if err != nil {
		return nil, err
	}
	roles, _, err := decodeList[models.Role](raw)
	return roles, err
}

type RoleInput struct {
	Name        string   `json:"name" validate:"required"`
	Permissions []string `json:"permissions,omitempty"`
}

func (s *CustomersService) CreateRole(ctx context.Context, input RoleInput) (*models.Role, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var r models.Role
	if err := s.client.post(ctx, "/roles/", input, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
