package models

import "time"

// CouponType determines how a coupon's value is applied.
type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

type Coupon struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Type           CouponType `json:"type"`
	Value          float64    `json:"value"`
	MinOrderAmount float64    `json:"min_order_amount,omitempty"`
	MaxUses        int        `json:"max_uses,omitempty"`
	UsedCount      int        `json:"used_count"`
	IsActive       bool       `json:"is_active"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}
