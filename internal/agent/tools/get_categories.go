package tools

import (
	"context"

	"github.com/aivanahq/aivana-backend/internal/products"
)

// GetCategories lists every product category.
type GetCategories struct {
	products *products.Service
}

func NewGetCategories(service *products.Service) *GetCategories {
	return &GetCategories{products: service}
}

func (t *GetCategories) Name() string { return "get_categories" }

func (t *GetCategories) Description() string {
	return "Get the list of all product categories in the marketplace"
}

func (t *GetCategories) Parameters() Schema {
	return Schema{
		Type:       "object",
		Properties: map[string]Property{},
	}
}

func (t *GetCategories) Execute(ctx context.Context, _ map[string]any) (any, error) {
	rows, err := t.products.Categories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(rows))
	for i := range rows {
		out = append(out, map[string]any{
			"id":          rows[i].ID,
			"name":        rows[i].Name,
			"description": rows[i].Description,
		})
	}
	return out, nil
}
