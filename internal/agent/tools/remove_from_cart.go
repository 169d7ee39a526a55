package tools

import (
	"context"

	"github.com/aivanahq/aivana-backend/internal/cart"
)

// RemoveFromCart takes a product out of the session's cart.
type RemoveFromCart struct {
	cart *cart.Service
}

func NewRemoveFromCart(service *cart.Service) *RemoveFromCart {
	return &RemoveFromCart{cart: service}
}

func (t *RemoveFromCart) Name() string { return "remove_from_cart" }

func (t *RemoveFromCart) Description() string {
	return "Remove a product from the user's shopping cart"
}

func (t *RemoveFromCart) Parameters() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"sessionId": {Type: "string", Description: "The user session ID identifying the cart"},
			"productId": {Type: "string", Description: "The ID of the product to remove"},
		},
		Required: []string{"sessionId", "productId"},
	}
}

func (t *RemoveFromCart) Execute(ctx context.Context, args map[string]any) (any, error) {
	sessionID, err := stringArg(args, "sessionId")
	if err != nil {
		return nil, err
	}
	productID, err := uuidArg(args, "productId")
	if err != nil {
		return nil, err
	}
	return t.cart.Remove(ctx, sessionID, productID)
}
