package api

import (
	"context"

	"github.com/matthieukhl/shopctl/internal/models"
)

type AttributesService struct {
	client *Client
}

func (s *AttributesService) List(ctx context.Context) ([]models.Attribute, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/attributes/"})
	if err != nil {
		return nil, err
	}
	attrs, _, err := decodeList[models.Attribute](raw)
	return attrs, err
}

type AttributeInput struct {
	Name string `json:"name" validate:"required"`
}

func (s *AttributesService) Create(ctx context.Context, input AttributeInput) (*models.Attribute, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var a models.Attribute
	if err := s.client.post(ctx, "/attributes/", input, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AttributesService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/attributes/"+id+"/")
}

func (s *AttributesService) Values(ctx context.Context, attributeID string) ([]models.AttributeValue, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/attributes/" + attributeID + "/values/"})
	if err != nil {
		return nil, err
	}
	values, _, err := decodeList[models.AttributeValue](raw)
	return values, err
}

type AttributeValueInput struct {
	Value string `json:"value" validate:"required"`
}

func (s *AttributesService) CreateValue(ctx context.Context, attributeID string, input AttributeValueInput) (*models.AttributeValue, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var v models.AttributeValue
	if err := s.client.post(ctx, "/attributes/"+attributeID+"/values/", input, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *AttributesService) DeleteValue(ctx context.Context, attributeID, valueID string) error {
	return s.client.delete(ctx, "/attributes/"+attributeID+"/values/"+valueID+"/")
}
