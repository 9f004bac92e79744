package models

type Category struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug,omitempty"`
	ParentID      string `json:"parent_id,omitempty"`
	ProductsCount int    `json:"products_count"`
}

type Attribute struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Values []AttributeValue `json:"values,omitempty"`
}

type AttributeValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}
