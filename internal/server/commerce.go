package server

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/shopctl/internal/models"
)

// ── Orders ──────────────────────────────────────────────────────────

func (s *Server) filterOrders(c *gin.Context) []models.Order {
	query := c.Query("search")
	status := c.Query("status")
	paymentStatus := c.Query("payment_status")

	s.store.mu.RLock()
	items := make([]models.Order, 0, len(s.store.orders))
	for _, o := range s.store.orders {
		if status != "" && string(o.Status) != status {
			continue
		}
		if paymentStatus != "" && string(o.PaymentStatus) != paymentStatus {
			continue
		}
		if !matchesQuery(query, o.OrderNumber, o.Customer.Name, o.Customer.Email) {
			continue
		}
		items = append(items, *o)
	}
	s.store.mu.RUnlock()

	sortByCreated(items, func(o models.Order) time.Time { return o.CreatedAt })
	return items
}

func (s *Server) listOrders(c *gin.Context) {
	respondList(c, s.filterOrders(c))
}

func (s *Server) getOrder(c *gin.Context) {
	s.store.mu.RLock()
	o, ok := s.store.orders[c.Param("id")]
	s.store.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	c.JSON(http.StatusOK, o)
}

type orderStatusRequest struct {
	Status        models.OrderStatus   `json:"status" binding:"required"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

// updateOrderStatus enforces the transition graph server-side as well;
// the client checks first, but the API stays authoritative.
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"status": []string{err.Error()}}})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	o, ok := s.store.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	if !models.CanTransition(o.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("cannot change status from %s to %s", o.Status, req.Status),
		})
		return
	}

	o.Status = req.Status
	if req.PaymentStatus != "" {
		o.PaymentStatus = req.PaymentStatus
	}
	o.UpdatedAt = time.Now()
	c.JSON(http.StatusOK, o)
}

func (s *Server) orderStats(c *gin.Context) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	var stats models.OrderStats
	for _, o := range s.store.orders {
		stats.TotalOrders++
		stats.TotalRevenue += o.TotalPrice
		switch o.Status {
		case models.OrderPending:
			stats.PendingOrders++
		case models.OrderShipped:
			stats.ShippedOrders++
		case models.OrderDelivered:
			stats.DeliveredOrders++
		case models.OrderCancelled:
			stats.CancelledOrders++
		}
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) exportOrders(c *gin.Context) {
	items := s.filterOrders(c)

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"order_number", "status", "payment_status", "total_price", "customer"})
	for _, o := range items {
		_ = w.Write([]string{
			o.OrderNumber,
			string(o.Status),
			string(o.PaymentStatus),
			strconv.FormatFloat(o.TotalPrice, 'f', 2, 64),
			o.Customer.Email,
		})
	}
	w.Flush()

	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ── Customers ───────────────────────────────────────────────────────

func (s *Server) listCustomers(c *gin.Context) {
	query := c.Query("search")

	s.store.mu.RLock()
	items := make([]models.Customer, 0, len(s.store.customers))
	for _, cust := range s.store.customers {
		if matchesQuery(query, cust.Name, cust.Email, cust.Phone) {
			items = append(items, *cust)
		}
	}
	s.store.mu.RUnlock()

	sortByCreated(items, func(cust models.Customer) time.Time { return cust.CreatedAt })
	respondList(c, items)
}

func (s *Server) getCustomer(c *gin.Context) {
	s.store.mu.RLock()
	cust, ok := s.store.customers[c.Param("id")]
	s.store.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "customer not found"})
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (s *Server) toggleBlockCustomer(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	cust, ok := s.store.customers[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "customer not found"})
		return
	}
	cust.IsBlocked = !cust.IsBlocked
	c.JSON(http.StatusOK, cust)
}

func (s *Server) listAdmins(c *gin.Context) {
	s.store.mu.RLock()
	items := make([]models.Admin, 0, len(s.store.users))
	for _, u := range s.store.users {
		items = append(items, models.Admin{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	s.store.mu.RUnlock()
	respondList(c, items)
}

type adminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

func (s *Server) createAdmin(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"email": []string{err.Error()}}})
		return
	}

	if s.store.userByEmail(req.Email) != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "an admin with this email already exists"})
		return
	}

	u := &devUser{
		User:     models.User{ID: newID(), Name: req.Name, Email: req.Email, Role: req.Role},
		Password: req.Password,
	}
	s.store.mu.Lock()
	s.store.users[u.ID] = u
	s.store.mu.Unlock()

	c.JSON(http.StatusCreated, models.Admin{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
}

func (s *Server) listRoles(c *gin.Context) {
	s.store.mu.RLock()
	items := make([]models.Role, 0, len(s.store.roles))
	for _, r := range s.store.roles {
		items = append(items, *r)
	}
	s.store.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "results": items})
}

type roleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
}

func (s *Server) createRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"name": []string{err.Error()}}})
		return
	}

	r := &models.Role{ID: newID(), Name: req.Name, Permissions: req.Permissions}
	s.store.mu.Lock()
	s.store.roles[r.ID] = r
	s.store.mu.Unlock()
	c.JSON(http.StatusCreated, r)
}

// ── Coupons ─────────────────────────────────────────────────────────

func (s *Server) listCoupons(c *gin.Context) {
	query := c.Query("search")

	s.store.mu.RLock()
	items := make([]models.Coupon, 0, len(s.store.coupons))
	for _, cp := range s.store.coupons {
		if matchesQuery(query, cp.Code) {
			items = append(items, *cp)
		}
	}
	s.store.mu.RUnlock()
	respondList(c, items)
}

func (s *Server) getCoupon(c *gin.Context) {
	s.store.mu.RLock()
	cp, ok := s.store.coupons[c.Param("id")]
	s.store.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "coupon not found"})
		return
	}
	c.JSON(http.StatusOK, cp)
}

type couponRequest struct {
	Code           string            `json:"code" binding:"required"`
	Type           models.CouponType `json:"type" binding:"required,oneof=percentage fixed"`
	Value          float64           `json:"value" binding:"required,gt=0"`
	MinOrderAmount float64           `json:"min_order_amount" binding:"gte=0"`
	MaxUses        int               `json:"max_uses" binding:"gte=0"`
	IsActive       bool              `json:"is_active"`
	ExpiresAt      *time.Time        `json:"expires_at"`
}

func (req couponRequest) apply(cp *models.Coupon) {
	cp.Code = req.Code
	cp.Type = req.Type
	cp.Value = req.Value
	cp.MinOrderAmount = req.MinOrderAmount
	cp.MaxUses = req.MaxUses
	cp.IsActive = req.IsActive
	cp.ExpiresAt = req.ExpiresAt
}

func (s *Server) createCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"code": []string{err.Error()}}})
		return
	}

	cp := &models.Coupon{ID: newID()}
	req.apply(cp)

	s.store.mu.Lock()
	s.store.coupons[cp.ID] = cp
	s.store.mu.Unlock()
	c.JSON(http.StatusCreated, cp)
}

func (s *Server) updateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"code": []string{err.Error()}}})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	cp, ok := s.store.coupons[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "coupon not found"})
		return
	}
	req.apply(cp)
	c.JSON(http.StatusOK, cp)
}

func (s *Server) patchCoupon(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	cp, ok := s.store.coupons[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "coupon not found"})
		return
	}
	if v, ok := fields["is_active"].(bool); ok {
		cp.IsActive = v
	}
	if v, ok := fields["code"].(string); ok && v != "" {
		cp.Code = v
	}
	if v, ok := fields["value"].(float64); ok && v > 0 {
		cp.Value = v
	}
	c.JSON(http.StatusOK, cp)
}

func (s *Server) deleteCoupon(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	id := c.Param("id")
	if _, ok := s.store.coupons[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "coupon not found"})
		return
	}
	delete(s.store.coupons, id)
	c.Status(http.StatusNoContent)
}

type validateCouponRequest struct {
	Code        string  `json:"code" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"gte=0"`
}

func (s *Server) validateCoupon(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"code": []string{err.Error()}}})
		return
	}

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	for _, cp := range s.store.coupons {
		if cp.Code != req.Code {
			continue
		}
		switch {
		case !cp.IsActive:
			c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "coupon is inactive"})
		case cp.ExpiresAt != nil && cp.ExpiresAt.Before(time.Now()):
			c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "coupon has expired"})
		case cp.MaxUses > 0 && cp.UsedCount >= cp.MaxUses:
			c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "coupon usage limit reached"})
		case req.OrderAmount < cp.MinOrderAmount:
			c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "order amount below minimum"})
		default:
			discount := cp.Value
			if cp.Type == models.CouponPercentage {
				discount = req.OrderAmount * cp.Value / 100
			}
			c.JSON(http.StatusOK, gin.H{"valid": true, "discount": discount})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "unknown coupon code"})
}
