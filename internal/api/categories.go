package api

import (
	"context"

	"github.com/matthieukhl/shopctl/internal/models"
)

type CategoriesService struct {
	client *Client
}

func (s *CategoriesService) List(ctx context.Context, opts ListOptions) ([]models.Category, int, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/categories/", query: opts.values()})
	if err != nil {
		return nil, 0, err
	}
	return decodeList[models.Category](raw)
}

func (s *CategoriesService) Get(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.client.get(ctx, "/categories/"+id+"/", nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

type CategoryInput struct {
	Name     string `json:"name" validate:"required"`
	Slug     string `json:"slug,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

func (s *CategoriesService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var c models.Category
	if err := s.client.post(ctx, "/categories/", input, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoriesService) Update(ctx context.Context, id string, input CategoryInput) (*models.Category, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var c models.Category
	if err := s.client.patch(ctx, "/categories/"+id+"/", input, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a category. Deleting one that still has children
// fails with ErrConflict.
func (s *CategoriesService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/categories/"+id+"/")
}
