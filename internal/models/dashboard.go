package models

// DashboardStats is the headline-number block for a reporting period.
type DashboardStats struct {
	TotalRevenue   float64 `json:"total_revenue"`
	TotalOrders    int     `json:"total_orders"`
	TotalCustomers int     `json:"total_customers"`
	TotalProducts  int     `json:"total_products"`
	RevenueChange  float64 `json:"revenue_change"`
	OrdersChange   float64 `json:"orders_change"`
	PeriodDays     int     `json:"period_days"`
}

// SalesPoint is one bucket of the sales-over-time analytics series.
type SalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type Analytics struct {
	Sales       []SalesPoint   `json:"sales"`
	TopProducts []TopProduct   `json:"top_products,omitempty"`
	ByStatus    map[string]int `json:"by_status,omitempty"`
}

type TopProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Sold      int     `json:"sold"`
	Revenue   float64 `json:"revenue"`
}

// AlertLevel classifies an inventory alert.
type AlertLevel string

const (
	AlertLow AlertLevel = "low"
	AlertOut AlertLevel = "out"
)

type InventoryAlert struct {
	ProductID   string     `json:"product_id"`
	ProductName string     `json:"product_name"`
	VariantID   string     `json:"variant_id,omitempty"`
	SKU         string     `json:"sku,omitempty"`
	Stock       int        `json:"stock"`
	Threshold   int        `json:"threshold"`
	Level       AlertLevel `json:"level"`
}
