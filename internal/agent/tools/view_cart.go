package tools

import (
	"context"

	"github.com/aivanahq/aivana-backend/internal/cart"
)

// ViewCart returns the contents of a session's shopping cart.
type ViewCart struct {
	cart *cart.Service
}

func NewViewCart(service *cart.Service) *ViewCart {
	return &ViewCart{cart: service}
}

func (t *ViewCart) Name() string { return "view_cart" }

func (t *ViewCart) Description() string {
	return "View the items currently in the user's shopping cart"
}

func (t *ViewCart) Parameters() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"sessionId": {Type: "string", Description: "The user session ID identifying the cart"},
		},
		Required: []string{"sessionId"},
	}
}

func (t *ViewCart) Execute(ctx context.Context, args map[string]any) (any, error) {
	sessionID, err := stringArg(args, "sessionId")
	if err != nil {
		return nil, err
	}
	return t.cart.View(ctx, sessionID)
}
