package tools

import (
	"context"

	"github.com/aivanahq/aivana-backend/internal/products"
)

// SearchProducts finds catalog entries matching a free-text query.
type SearchProducts struct {
	products *products.Service
}

func NewSearchProducts(service *products.Service) *SearchProducts {
	return &SearchProducts{products: service}
}

func (t *SearchProducts) Name() string { return "search_products" }

func (t *SearchProducts) Description() string {
	return "Search for products based on a query string"
}

func (t *SearchProducts) Parameters() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"query": {Type: "string", Description: "The search query to find products"},
		},
		Required: []string{"query"},
	}
}

func (t *SearchProducts) Execute(ctx context.Context, args map[string]any) (any, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return nil, err
	}
	return t.products.Search(ctx, query)
}
