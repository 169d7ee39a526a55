package tools

import (
	"context"

	"github.com/aivanahq/aivana-backend/internal/cart"
)

// UpdateCartSession records buyer details on the session ahead of checkout.
type UpdateCartSession struct {
	cart *cart.Service
}

func NewUpdateCartSession(service *cart.Service) *UpdateCartSession {
	return &UpdateCartSession{cart: service}
}

func (t *UpdateCartSession) Name() string { return "update_cart_session" }

func (t *UpdateCartSession) Description() string {
	return "Update the cart session with buyer information such as name, shipping address and notes"
}

func (t *UpdateCartSession) Parameters() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"sessionId":       {Type: "string", Description: "The user session ID identifying the cart"},
			"buyerName":       {Type: "string", Description: "The buyer's full name"},
			"shippingAddress": {Type: "string", Description: "The shipping address for the order"},
			"notes":           {Type: "string", Description: "Additional notes for the order"},
		},
		Required: []string{"sessionId"},
	}
}

func (t *UpdateCartSession) Execute(ctx context.Context, args map[string]any) (any, error) {
	sessionID, err := stringArg(args, "sessionId")
	if err != nil {
		return nil, err
	}

	var input cart.UpdateSessionInput
	if v, ok := optionalStringArg(args, "buyerName"); ok {
		input.BuyerName = &v
	}
	if v, ok := optionalStringArg(args, "shippingAddress"); ok {
		input.ShippingAddress = &v
	}
	if v, ok := optionalStringArg(args, "notes"); ok {
		input.Notes = &v
	}

	return t.cart.UpdateSession(ctx, sessionID, input)
}
