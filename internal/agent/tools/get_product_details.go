package tools

import (
	"context"

	"github.com/aivanahq/aivana-backend/internal/products"
)

// GetProductDetails resolves the single most relevant product for a query.
type GetProductDetails struct {
	products *products.Service
}

func NewGetProductDetails(service *products.Service) *GetProductDetails {
	return &GetProductDetails{products: service}
}

func (t *GetProductDetails) Name() string { return "get_product_details" }

func (t *GetProductDetails) Description() string {
	return "Get detailed information about a product based on a description or query"
}

func (t *GetProductDetails) Parameters() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"query": {
				Type:        "string",
				Description: "Description or query to find the product (e.g., \"wireless headphones with noise cancellation\")",
			},
		},
		Required: []string{"query"},
	}
}

func (t *GetProductDetails) Execute(ctx context.Context, args map[string]any) (any, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return nil, err
	}
	return t.products.Details(ctx, query)
}
