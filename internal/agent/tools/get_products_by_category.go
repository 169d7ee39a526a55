package tools

import (
	"context"

	"github.com/aivanahq/aivana-backend/internal/products"
)

// GetProductsByCategory resolves a category by name and lists its products.
type GetProductsByCategory struct {
	products *products.Service
}

func NewGetProductsByCategory(service *products.Service) *GetProductsByCategory {
	return &GetProductsByCategory{products: service}
}

func (t *GetProductsByCategory) Name() string { return "get_products_by_category" }

func (t *GetProductsByCategory) Description() string {
	return "Get products belonging to a category, found by category name"
}

func (t *GetProductsByCategory) Parameters() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"category_query": {Type: "string", Description: "The category name or part of it"},
		},
		Required: []string{"category_query"},
	}
}

func (t *GetProductsByCategory) Execute(ctx context.Context, args map[string]any) (any, error) {
	query, err := stringArg(args, "category_query")
	if err != nil {
		return nil, err
	}

	category, rows, err := t.products.ByCategory(ctx, query)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"category": category.Name,
		"products": rows,
	}, nil
}
