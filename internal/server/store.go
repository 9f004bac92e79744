package server

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matthieukhl/shopctl/internal/models"
)

// devUser pairs an admin account with its password. Plaintext is fine
// here: the store only ever holds throwaway fixture data.
type devUser struct {
	models.User
	Password string
}

// memStore holds all dev-server state behind one lock. Nothing is
// persisted; restarting the server reseeds from scratch.
type memStore struct {
	mu sync.RWMutex

	users         map[string]*devUser
	refreshTokens map[string]string // refresh token -> user ID

	products      map[string]*models.Product
	variants      map[string][]*models.ProductVariant // by product ID
	orders        map[string]*models.Order
	customers     map[string]*models.Customer
	coupons       map[string]*models.Coupon
	categories    map[string]*models.Category
	attributes    map[string]*models.Attribute
	notifications map[string]*models.Notification
	activity      []models.ActivityLog
	roles         map[string]*models.Role

	lowStockThreshold int
}

func newMemStore() *memStore {
	return &memStore{
		users:             map[string]*devUser{},
		refreshTokens:     map[string]string{},
		products:          map[string]*models.Product{},
		variants:          map[string][]*models.ProductVariant{},
		orders:            map[string]*models.Order{},
		customers:         map[string]*models.Customer{},
		coupons:           map[string]*models.Coupon{},
		categories:        map[string]*models.Category{},
		attributes:        map[string]*models.Attribute{},
		notifications:     map[string]*models.Notification{},
		roles:             map[string]*models.Role{},
		lowStockThreshold: 5,
	}
}

func newID() string {
	return uuid.NewString()
}

// seed loads a small consistent fixture set so the CLI has something
// to show against a fresh dev server.
func (m *memStore) seed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	admin := &devUser{
		User: models.User{
			ID:    newID(),
			Name:  "Dev Admin",
			Email: "admin@example.com",
			Role:  "owner",
		},
		Password: "admin123",
	}
	m.users[admin.ID] = admin

	now := time.Now()

	catClothing := &models.Category{ID: newID(), Name: "Clothing", Slug: "clothing"}
	catShirts := &models.Category{ID: newID(), Name: "Shirts", Slug: "shirts", ParentID: catClothing.ID}
	m.categories[catClothing.ID] = catClothing
	m.categories[catShirts.ID] = catShirts

	sizes := &models.Attribute{
		ID:   newID(),
		Name: "Size",
		Values: []models.AttributeValue{
			{ID: newID(), Value: "S"},
			{ID: newID(), Value: "M"},
			{ID: newID(), Value: "L"},
		},
	}
	m.attributes[sizes.ID] = sizes

	shirt := &models.Product{
		ID:         newID(),
		Name:       "Linen Shirt",
		Price:      39.90,
		Stock:      12,
		CategoryID: catShirts.ID,
		Category:   catShirts.Name,
		IsActive:   true,
		CreatedAt:  now.Add(-72 * time.Hour),
	}
	mug := &models.Product{
		ID:        newID(),
		Name:      "Stoneware Mug",
		Price:     14.50,
		Stock:     2,
		IsActive:  true,
		CreatedAt: now.Add(-48 * time.Hour),
	}
	poster := &models.Product{
		ID:        newID(),
		Name:      "City Map Poster",
		Price:     22.00,
		Stock:     0,
		IsActive:  false,
		CreatedAt: now.Add(-24 * time.Hour),
	}
	for _, p := range []*models.Product{shirt, mug, poster} {
		m.products[p.ID] = p
	}

	m.variants[shirt.ID] = []*models.ProductVariant{
		{ID: newID(), ProductID: shirt.ID, SKU: "SHIRT-S", Attributes: map[string]string{"size": "S"}, Price: 39.90, Stock: 4},
		{ID: newID(), ProductID: shirt.ID, SKU: "SHIRT-M", Attributes: map[string]string{"size": "M"}, Price: 39.90, Stock: 8},
	}

	alice := &models.Customer{ID: newID(), Name: "Alice Fournier", Email: "alice@example.com", OrdersCount: 2, TotalSpent: 102.30, CreatedAt: now.Add(-200 * time.Hour)}
	bob := &models.Customer{ID: newID(), Name: "Bob Sayed", Email: "bob@example.com", OrdersCount: 1, TotalSpent: 39.90, CreatedAt: now.Add(-90 * time.Hour)}
	m.customers[alice.ID] = alice
	m.customers[bob.ID] = bob

	orders := []*models.Order{
		{
			ID:            newID(),
			OrderNumber:   "SO-1001",
			Status:        models.OrderPending,
			PaymentStatus: models.PaymentPending,
			PaymentMethod: "cod",
			TotalPrice:    62.40,
			Customer:      models.OrderCustomer{ID: alice.ID, Name: alice.Name, Email: alice.Email},
			Items: []models.OrderItem{
				{ID: newID(), ProductID: shirt.ID, ProductName: shirt.Name, Quantity: 1, UnitPrice: 39.90},
				{ID: newID(), ProductID: poster.ID, ProductName: poster.Name, Quantity: 1, UnitPrice: 22.00},
			},
			CreatedAt: now.Add(-30 * time.Hour),
			UpdatedAt: now.Add(-30 * time.Hour),
		},
		{
			ID:            newID(),
			OrderNumber:   "SO-1002",
			Status:        models.OrderConfirmed,
			PaymentStatus: models.PaymentPaid,
			PaymentMethod: "card",
			TotalPrice:    39.90,
			Customer:      models.OrderCustomer{ID: bob.ID, Name: bob.Name, Email: bob.Email},
			Items: []models.OrderItem{
				{ID: newID(), ProductID: shirt.ID, ProductName: shirt.Name, Quantity: 1, UnitPrice: 39.90},
			},
			CreatedAt: now.Add(-10 * time.Hour),
			UpdatedAt: now.Add(-8 * time.Hour),
		},
	}
	for _, o := range orders {
		m.orders[o.ID] = o
	}

	welcome := &models.Coupon{ID: newID(), Code: "WELCOME10", Type: models.CouponPercentage, Value: 10, IsActive: true}
	m.coupons[welcome.ID] = welcome

	owner := &models.Role{ID: newID(), Name: "owner", Permissions: []string{"*"}}
	support := &models.Role{ID: newID(), Name: "support", Permissions: []string{"orders.read", "customers.read"}}
	m.roles[owner.ID] = owner
	m.roles[support.ID] = support

	for _, n := range []*models.Notification{
		{ID: newID(), Title: "New order", Message: "Order SO-1001 placed", Type: "order", CreatedAt: now.Add(-30 * time.Hour)},
		{ID: newID(), Title: "Low stock", Message: "Stoneware Mug is low on stock", Type: "inventory", CreatedAt: now.Add(-5 * time.Hour)},
	} {
		m.notifications[n.ID] = n
	}

	m.activity = []models.ActivityLog{
		{ID: newID(), Actor: admin.Email, Action: "login", CreatedAt: now.Add(-1 * time.Hour)},
	}
}

func (m *memStore) userByEmail(email string) *devUser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (m *memStore) userByID(id string) *devUser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

func (m *memStore) storeRefreshToken(token, userID string) {
	m.mu.Lock()
	m.refreshTokens[token] = userID
	m.mu.Unlock()
}

func (m *memStore) userForRefreshToken(token string) *devUser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.refreshTokens[token]
	if !ok {
		return nil
	}
	return m.users[userID]
}

func (m *memStore) revokeRefreshToken(token string) {
	m.mu.Lock()
	delete(m.refreshTokens, token)
	m.mu.Unlock()
}

// matchesQuery reports whether any of the fields contains the search
// term, case-insensitively.
func matchesQuery(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// sortByCreated keeps list output deterministic (newest first).
func sortByCreated[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
