package tools

import (
	"context"

	"github.com/aivanahq/aivana-backend/internal/cart"
)

// AddToCart puts a product into the session's cart.
type AddToCart struct {
	cart *cart.Service
}

func NewAddToCart(service *cart.Service) *AddToCart {
	return &AddToCart{cart: service}
}

func (t *AddToCart) Name() string { return "add_to_cart" }

func (t *AddToCart) Description() string {
	return "Add a product to the user's shopping cart. Find the product ID with search_products first."
}

func (t *AddToCart) Parameters() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"sessionId": {Type: "string", Description: "The user session ID identifying the cart"},
			"productId": {Type: "string", Description: "The ID of the product to add"},
			"quantity":  {Type: "number", Description: "Quantity to add (default: 1)"},
		},
		Required: []string{"sessionId", "productId"},
	}
}

func (t *AddToCart) Execute(ctx context.Context, args map[string]any) (any, error) {
	sessionID, err := stringArg(args, "sessionId")
	if err != nil {
		return nil, err
	}
	productID, err := uuidArg(args, "productId")
	if err != nil {
		return nil, err
	}
	quantity, err := intArg(args, "quantity", 1)
	if err != nil {
		return nil, err
	}
	return t.cart.Add(ctx, sessionID, productID, quantity)
}
