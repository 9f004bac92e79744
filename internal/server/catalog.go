package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/shopctl/internal/models"
)

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.Query("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

// respondList writes the {count, results} page envelope the client
// expects from every list endpoint.
func respondList[T any](c *gin.Context, items []T) {
	page, pageSize := pageParams(c)
	total := len(items)

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{"count": total, "results": items[start:end]})
}

// ── Products ────────────────────────────────────────────────────────

func (s *Server) listProducts(c *gin.Context) {
	query := c.Query("search")

	s.store.mu.RLock()
	items := make([]models.Product, 0, len(s.store.products))
	for _, p := range s.store.products {
		if matchesQuery(query, p.Name, p.Description, p.Category) {
			items = append(items, *p)
		}
	}
	s.store.mu.RUnlock()

	sortByCreated(items, func(p models.Product) time.Time { return p.CreatedAt })
	respondList(c, items)
}

func (s *Server) getProduct(c *gin.Context) {
	s.store.mu.RLock()
	p, ok := s.store.products[c.Param("id")]
	s.store.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	out := *p
	s.store.mu.RLock()
	for _, v := range s.store.variants[p.ID] {
		out.Variants = append(out.Variants, *v)
	}
	s.store.mu.RUnlock()
	c.JSON(http.StatusOK, out)
}

// createProduct consumes the multipart payload the client sends.
func (s *Server) createProduct(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"name": []string{"required"}}})
		return
	}
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)
	stock, _ := strconv.Atoi(c.PostForm("stock"))
	isActive, _ := strconv.ParseBool(c.PostForm("is_active"))

	p := &models.Product{
		ID:          newID(),
		Name:        name,
		Description: c.PostForm("description"),
		Price:       price,
		Stock:       stock,
		CategoryID:  c.PostForm("category_id"),
		IsActive:    isActive,
		CreatedAt:   time.Now(),
	}

	if form, err := c.MultipartForm(); err == nil {
		primary := true
		for _, files := range form.File {
			for _, f := range files {
				p.Images = append(p.Images, models.ProductImage{
					ID:        newID(),
					URL:       "/media/products/" + p.ID + "/" + f.Filename,
					IsPrimary: primary,
				})
				primary = false
			}
		}
	}

	s.store.mu.Lock()
	if p.CategoryID != "" {
		if cat, ok := s.store.categories[p.CategoryID]; ok {
			p.Category = cat.Name
			cat.ProductsCount++
		}
	}
	s.store.products[p.ID] = p
	s.store.mu.Unlock()

	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, ok := s.store.products[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	if name := c.PostForm("name"); name != "" {
		p.Name = name
	}
	if desc := c.PostForm("description"); desc != "" {
		p.Description = desc
	}
	if raw := c.PostForm("price"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			p.Price = price
		}
	}
	if raw := c.PostForm("stock"); raw != "" {
		if stock, err := strconv.Atoi(raw); err == nil {
			p.Stock = stock
		}
	}
	if raw := c.PostForm("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			p.IsActive = active
		}
	}

	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProduct(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	id := c.Param("id")
	if _, ok := s.store.products[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	delete(s.store.products, id)
	delete(s.store.variants, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteProductImage(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, ok := s.store.products[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	imageID := c.Param("imageID")
	for i, img := range p.Images {
		if img.ID == imageID {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "image not found"})
}

func (s *Server) setPrimaryImage(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, ok := s.store.products[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	imageID := c.Param("imageID")
	found := false
	for i := range p.Images {
		p.Images[i].IsPrimary = p.Images[i].ID == imageID
		found = found || p.Images[i].IsPrimary
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "image not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ── Variants ────────────────────────────────────────────────────────

func (s *Server) listVariants(c *gin.Context) {
	s.store.mu.RLock()
	variants := s.store.variants[c.Param("id")]
	items := make([]models.ProductVariant, 0, len(variants))
	for _, v := range variants {
		items = append(items, *v)
	}
	s.store.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "results": items})
}

func (s *Server) findVariant(c *gin.Context) *models.ProductVariant {
	for _, v := range s.store.variants[c.Param("id")] {
		if v.ID == c.Param("variantID") {
			return v
		}
	}
	return nil
}

func (s *Server) getVariant(c *gin.Context) {
	s.store.mu.RLock()
	v := s.findVariant(c)
	s.store.mu.RUnlock()
	if v == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "variant not found"})
		return
	}
	c.JSON(http.StatusOK, v)
}

type variantRequest struct {
	SKU        string            `json:"sku" binding:"required"`
	Attributes map[string]string `json:"attributes"`
	Price      float64           `json:"price" binding:"gte=0"`
	Stock      int               `json:"stock" binding:"gte=0"`
}

func (s *Server) createVariant(c *gin.Context) {
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"sku": []string{err.Error()}}})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	productID := c.Param("id")
	if _, ok := s.store.products[productID]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	v := &models.ProductVariant{
		ID:         newID(),
		ProductID:  productID,
		SKU:        req.SKU,
		Attributes: req.Attributes,
		Price:      req.Price,
		Stock:      req.Stock,
	}
	s.store.variants[productID] = append(s.store.variants[productID], v)
	c.JSON(http.StatusCreated, v)
}

func (s *Server) updateVariant(c *gin.Context) {
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"sku": []string{err.Error()}}})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	v := s.findVariant(c)
	if v == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "variant not found"})
		return
	}
	v.SKU = req.SKU
	v.Attributes = req.Attributes
	v.Price = req.Price
	v.Stock = req.Stock
	c.JSON(http.StatusOK, v)
}

func (s *Server) deleteVariant(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	productID := c.Param("id")
	variantID := c.Param("variantID")
	variants := s.store.variants[productID]
	for i, v := range variants {
		if v.ID == variantID {
			s.store.variants[productID] = append(variants[:i], variants[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "variant not found"})
}

type stockRequest struct {
	Stock *int `json:"stock" binding:"required,gte=0"`
}

func (s *Server) updateVariantStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"stock": []string{err.Error()}}})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	v := s.findVariant(c)
	if v == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "variant not found"})
		return
	}
	v.Stock = *req.Stock
	c.JSON(http.StatusOK, v)
}

// ── Categories ──────────────────────────────────────────────────────

func (s *Server) listCategories(c *gin.Context) {
	query := c.Query("search")

	s.store.mu.RLock()
	items := make([]models.Category, 0, len(s.store.categories))
	for _, cat := range s.store.categories {
		if matchesQuery(query, cat.Name, cat.Slug) {
			items = append(items, *cat)
		}
	}
	s.store.mu.RUnlock()

	respondList(c, items)
}

func (s *Server) getCategory(c *gin.Context) {
	s.store.mu.RLock()
	cat, ok := s.store.categories[c.Param("id")]
	s.store.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

type categoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	ParentID string `json:"parent_id"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"name": []string{err.Error()}}})
		return
	}

	cat := &models.Category{ID: newID(), Name: req.Name, Slug: req.Slug, ParentID: req.ParentID}

	s.store.mu.Lock()
	s.store.categories[cat.ID] = cat
	s.store.mu.Unlock()

	c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"name": []string{err.Error()}}})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	cat, ok := s.store.categories[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	cat.Name = req.Name
	cat.Slug = req.Slug
	cat.ParentID = req.ParentID
	c.JSON(http.StatusOK, cat)
}

// deleteCategory refuses to remove a category that still has child
// categories, mirroring the backend's integrity rule.
func (s *Server) deleteCategory(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	id := c.Param("id")
	if _, ok := s.store.categories[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	for _, cat := range s.store.categories {
		if cat.ParentID == id {
			c.JSON(http.StatusConflict, gin.H{"message": "category still has child categories"})
			return
		}
	}
	delete(s.store.categories, id)
	c.Status(http.StatusNoContent)
}

// ── Attributes ──────────────────────────────────────────────────────

func (s *Server) listAttributes(c *gin.Context) {
	s.store.mu.RLock()
	items := make([]models.Attribute, 0, len(s.store.attributes))
	for _, a := range s.store.attributes {
		items = append(items, *a)
	}
	s.store.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "results": items})
}

type attributeRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) createAttribute(c *gin.Context) {
	var req attributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"name": []string{err.Error()}}})
		return
	}

	a := &models.Attribute{ID: newID(), Name: req.Name}
	s.store.mu.Lock()
	s.store.attributes[a.ID] = a
	s.store.mu.Unlock()
	c.JSON(http.StatusCreated, a)
}

func (s *Server) deleteAttribute(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	id := c.Param("id")
	if _, ok := s.store.attributes[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "attribute not found"})
		return
	}
	delete(s.store.attributes, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) listAttributeValues(c *gin.Context) {
	s.store.mu.RLock()
	a, ok := s.store.attributes[c.Param("id")]
	s.store.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "attribute not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(a.Values), "results": a.Values})
}

type attributeValueRequest struct {
	Value string `json:"value" binding:"required"`
}

func (s *Server) createAttributeValue(c *gin.Context) {
	var req attributeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": gin.H{"value": []string{err.Error()}}})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, ok := s.store.attributes[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "attribute not found"})
		return
	}
	value := models.AttributeValue{ID: newID(), Value: req.Value}
	a.Values = append(a.Values, value)
	c.JSON(http.StatusCreated, value)
}

func (s *Server) deleteAttributeValue(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, ok := s.store.attributes[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "attribute not found"})
		return
	}
	valueID := c.Param("valueID")
	for i, v := range a.Values {
		if v.ID == valueID {
			a.Values = append(a.Values[:i], a.Values[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "value not found"})
}
