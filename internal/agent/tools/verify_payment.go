package tools

import (
	"context"

	"github.com/aivanahq/aivana-backend/internal/payments"
)

// VerifyPayment checks an on-chain payment against the session's cart and
// settles it.
type VerifyPayment struct {
	payments *payments.Service
}

func NewVerifyPayment(service *payments.Service) *VerifyPayment {
	return &VerifyPayment{payments: service}
}

func (t *VerifyPayment) Name() string { return "verify_payment" }

func (t *VerifyPayment) Description() string {
	return "Verify a payment transaction by checking the blockchain and comparing with the user's cart. Validates that the transaction ID is unique and reduces product stock."
}

func (t *VerifyPayment) Parameters() Schema {
	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"transactionId": {Type: "string", Description: "The blockchain transaction ID to verify"},
			"sessionId":     {Type: "string", Description: "The user session ID to retrieve the cart information"},
			"buyerWalletId": {Type: "string", Description: "The buyer's wallet ID (optional)"},
		},
		Required: []string{"transactionId", "sessionId"},
	}
}

func (t *VerifyPayment) Execute(ctx context.Context, args map[string]any) (any, error) {
	transactionID, err := stringArg(args, "transactionId")
	if err != nil {
		return nil, err
	}
	sessionID, err := stringArg(args, "sessionId")
	if err != nil {
		return nil, err
	}
	buyerWallet, _ := optionalStringArg(args, "buyerWalletId")

	return t.payments.Verify(ctx, payments.VerifyInput{
		TransactionID: transactionID,
		SessionID:     sessionID,
		BuyerWalletID: buyerWallet,
	})
}
