package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/shopctl/internal/models"
)

// ── Notifications ───────────────────────────────────────────────────

func (s *Server) listNotifications(c *gin.Context) {
	s.store.mu.RLock()
	items := make([]models.Notification, 0, len(s.store.notifications))
	for _, n := range s.store.notifications {
		items = append(items, *n)
	}
	s.store.mu.RUnlock()

	sortByCreated(items, func(n models.Notification) time.Time { return n.CreatedAt })
	respondList(c, items)
}

func (s *Server) markNotificationRead(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	n, ok := s.store.notifications[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "notification not found"})
		return
	}
	n.IsRead = true
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) markAllNotificationsRead(c *gin.Context) {
	s.store.mu.Lock()
	for _, n := range s.store.notifications {
		n.IsRead = true
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// unreadCount uses the {success, data} envelope, matching the
// production shape for this endpoint.
func (s *Server) unreadCount(c *gin.Context) {
	s.store.mu.RLock()
	count := 0
	for _, n := range s.store.notifications {
		if !n.IsRead {
			count++
		}
	}
	s.store.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"unread_count": count},
	})
}

func (s *Server) listActivityLogs(c *gin.Context) {
	s.store.mu.RLock()
	items := make([]models.ActivityLog, len(s.store.activity))
	copy(items, s.store.activity)
	s.store.mu.RUnlock()

	sortByCreated(items, func(a models.ActivityLog) time.Time { return a.CreatedAt })
	respondList(c, items)
}

// ── Dashboard ───────────────────────────────────────────────────────

func periodDays(c *gin.Context) int {
	days, _ := strconv.Atoi(c.Query("period"))
	if days < 1 {
		days = 30
	}
	return days
}

func (s *Server) dashboardStats(c *gin.Context) {
	days := periodDays(c)
	cutoff := time.Now().AddDate(0, 0, -days)

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	stats := models.DashboardStats{
		TotalCustomers: len(s.store.customers),
		TotalProducts:  len(s.store.products),
		PeriodDays:     days,
	}
	for _, o := range s.store.orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		stats.TotalOrders++
		stats.TotalRevenue += o.TotalPrice
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) dashboardAnalytics(c *gin.Context) {
	days := periodDays(c)
	cutoff := time.Now().AddDate(0, 0, -days)

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	buckets := map[string]*models.SalesPoint{}
	byStatus := map[string]int{}
	for _, o := range s.store.orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		bucket, ok := buckets[day]
		if !ok {
			bucket = &models.SalesPoint{Date: day}
			buckets[day] = bucket
		}
		bucket.Orders++
		bucket.Revenue += o.TotalPrice
		byStatus[string(o.Status)]++
	}

	sales := make([]models.SalesPoint, 0, len(buckets))
	for _, b := range buckets {
		sales = append(sales, *b)
	}
	sortByCreated(sales, func(p models.SalesPoint) time.Time {
		t, _ := time.Parse("2006-01-02", p.Date)
		return t
	})

	c.JSON(http.StatusOK, models.Analytics{Sales: sales, ByStatus: byStatus})
}

func (s *Server) inventoryAlerts(c *gin.Context) {
	alertType := c.DefaultQuery("type", "all")

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	alerts := []models.InventoryAlert{}
	add := func(a models.InventoryAlert) {
		if alertType == "all" || string(a.Level) == alertType {
			alerts = append(alerts, a)
		}
	}

	for _, p := range s.store.products {
		variants := s.store.variants[p.ID]
		if len(variants) == 0 {
			if p.Stock <= s.store.lowStockThreshold {
				level := models.AlertLow
				if p.Stock == 0 {
					level = models.AlertOut
				}
				add(models.InventoryAlert{
					ProductID:   p.ID,
					ProductName: p.Name,
					Stock:       p.Stock,
					Threshold:   s.store.lowStockThreshold,
					Level:       level,
				})
			}
			continue
		}
		for _, v := range variants {
			if v.Stock <= s.store.lowStockThreshold {
				level := models.AlertLow
				if v.Stock == 0 {
					level = models.AlertOut
				}
				add(models.InventoryAlert{
					ProductID:   p.ID,
					ProductName: p.Name,
					VariantID:   v.ID,
					SKU:         v.SKU,
					Stock:       v.Stock,
					Threshold:   s.store.lowStockThreshold,
					Level:       level,
				})
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"count": len(alerts), "results": alerts})
}
