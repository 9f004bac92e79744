package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/matthieukhl/shopctl/internal/models"
)

// ProductsService covers the catalog: products, their images and
// their variants.
type ProductsService struct {
	client *Client
}

type ProductListOptions struct {
	ListOptions
	CategoryID string
	IsActive   *bool
}

func (o ProductListOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.CategoryID != "" {
		q.Set("category", o.CategoryID)
	}
	if o.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*o.IsActive))
	}
	return q
}

func (s *ProductsService) List(ctx context.Context, opts ProductListOptions) ([]models.Product, int, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/products/", query: opts.values()})
	if err != nil {
		return nil, 0, err
	}
	return decodeList[models.Product](raw)
}

func (s *ProductsService) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.client.get(ctx, "/products/"+id+"/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductInput is the create/update payload. Images are sent as
// multipart file parts alongside the scalar fields.
type ProductInput struct {
	Name        string  `validate:"required"`
	Description string  `validate:"-"`
	Price       float64 `validate:"gte=0"`
	Stock       int     `validate:"gte=0"`
	CategoryID  string  `validate:"-"`
	IsActive    bool    `validate:"-"`
	Images      []ProductImageUpload
}

type ProductImageUpload struct {
	Filename string
	Data     []byte
}

func (in ProductInput) form() *form {
	f := &form{
		fields: map[string]string{
			"name":        in.Name,
			"description": in.Description,
			"price":       strconv.FormatFloat(in.Price, 'f', -1, 64),
			"stock":       strconv.Itoa(in.Stock),
			"is_active":   strconv.FormatBool(in.IsActive),
		},
		files: map[string]formFile{},
	}
	if in.CategoryID != "" {
		f.fields["category_id"] = in.CategoryID
	}
	for i, img := range in.Images {
		f.files[fmt.Sprintf("images[%d]", i)] = formFile{Name: img.Filename, Data: img.Data}
	}
	return f
}

func (s *ProductsService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var p models.Product
	if err := s.client.postForm(ctx, "/products/", input.form(), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductsService) Update(ctx context.Context, id string, input ProductInput) (*models.Product, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var p models.Product
	if err := s.client.patchForm(ctx, "/products/"+id+"/", input.form(), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductsService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/products/"+id+"/")
}

func (s *ProductsService) DeleteImage(ctx context.Context, productID, imageID string) error {
	return s.client.delete(ctx, "/products/"+productID+"/images/"+imageID+"/")
}

// SetPrimaryImage promotes an image to be the product's primary one.
func (s *ProductsService) SetPrimaryImage(ctx context.Context, productID, imageID string) error {
	return s.client.patch(ctx, "/products/"+productID+"/images/"+imageID+"/", nil, nil)
}

func (s *ProductsService) Variants(ctx context.Context, productID string) ([]models.ProductVariant, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/products/" + productID + "/variants/"})
	if err != nil {
		return nil, err
	}
	variants, _, err := decodeList[models.ProductVariant](raw)
	return variants, err
}

func (s *ProductsService) Variant(ctx context.Context, productID, variantID string) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := s.client.get(ctx, "/products/"+productID+"/variants/"+variantID+"/", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type VariantInput struct {
	SKU        string            `json:"sku" validate:"required"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Price      float64           `json:"price" validate:"gte=0"`
	Stock      int               `json:"stock" validate:"gte=0"`
}

func (s *ProductsService) CreateVariant(ctx context.Context, productID string, input VariantInput) (*models.ProductVariant, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var v models.ProductVariant
	if err := s.client.post(ctx, "/products/"+productID+"/variants/", input, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *ProductsService) UpdateVariant(ctx context.Context, productID, variantID string, input VariantInput) (*models.ProductVariant, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var v models.ProductVariant
	if err := s.client.patch(ctx, "/products/"+productID+"/variants/"+variantID+"/", input, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *ProductsService) DeleteVariant(ctx context.Context, productID, variantID string) error {
	return s.client.delete(ctx, "/products/"+productID+"/variants/"+variantID+"/")
}

// UpdateVariantStock sets the absolute stock level for a variant.
func (s *ProductsService) UpdateVariantStock(ctx context.Context, productID, variantID string, stock int) (*models.ProductVariant, error) {
	if stock < 0 {
		return nil, &APIError{Status: 400, Message: "stock cannot be negative", Fields: map[string][]string{"stock": {"must be zero or positive"}}}
	}
	var v models.ProductVariant
	err := s.client.patch(ctx, "/products/"+productID+"/variants/"+variantID+"/stock/", map[string]int{"stock": stock}, &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
