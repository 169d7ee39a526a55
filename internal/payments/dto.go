package payments

// VerifyInput is the payment verification request. BuyerWalletID is optional
// and defaults to the sending address of the chain transaction.
type VerifyInput struct {
	TransactionID string
	SessionID     string
	BuyerWalletID string
}

// TransactionDetails echoes what the chain reported for the transaction.
type TransactionDetails struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	To          string `json:"to"`
	From        string `json:"from"`
	BlockNumber int64  `json:"block_number,omitempty"`
}

// VerifyResult is the success payload of a verified payment.
type VerifyResult struct {
	Success            bool               `json:"success"`
	Message            string             `json:"message"`
	TransactionDetails TransactionDetails `json:"transaction_details"`
	ExpectedAmount     string             `json:"expected_amount"`
	ItemsPurchased     int                `json:"items_purchased"`
	BuyerWalletID      string             `json:"buyer_wallet_id"`
}
