package api

import (
	"context"
	"time"

	"github.com/matthieukhl/shopctl/internal/models"
)

type CouponsService struct {
	client *Client
}

func (s *CouponsService) List(ctx context.Context, opts ListOptions) ([]models.Coupon, int, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/coupons/", query: opts.values()})
	if err != nil {
		return nil, 0, err
	}
	return decodeList[models.Coupon](raw)
}

func (s *CouponsService) Get(ctx context.Context, id string) (*models.Coupon, error) {
	var c models.Coupon
	if err := s.client.get(ctx, "/coupons/"+id+"/", nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

type CouponInput struct {
	Code           string            `json:"code" validate:"required"`
	Type           models.CouponType `json:"type" validate:"required,oneof=percentage fixed"`
	Value          float64           `json:"value" validate:"gt=0"`
	MinOrderAmount float64           `json:"min_order_amount,omitempty" validate:"gte=0"`
	MaxUses        int               `json:"max_uses,omitempty" validate:"gte=0"`
	IsActive       bool              `json:"is_active"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty"`
}

func (s *CouponsService) Create(ctx context.Context, input CouponInput) (*models.Coupon, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var c models.Coupon
	if err := s.client.post(ctx, "/coupons/", input, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces the whole coupon (PUT).
func (s *CouponsService) Update(ctx context.Context, id string, input CouponInput) (*models.Coupon, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	var c models.Coupon
	if err := s.client.put(ctx, "/coupons/"+id+"/", input, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Patch applies a partial update, e.g. toggling is_active.
func (s *CouponsService) Patch(ctx context.Context, id string, fields map[string]any) (*models.Coupon, error) {
	var c models.Coupon
	if err := s.client.patch(ctx, "/coupons/"+id+"/", fields, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CouponsService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/coupons/"+id+"/")
}

type CouponValidation struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Reason   string  `json:"reason,omitempty"`
}

// Validate checks a code against an order amount without consuming a
// use.
func (s *CouponsService) Validate(ctx context.Context, code string, orderAmount float64) (*CouponValidation, error) {
	body := map[string]any{"code": code, "order_amount": orderAmount}
	var v CouponValidation
	if err := s.client.post(ctx, "/coupons/validate/", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
