package payments

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/internal/cart"
	"github.com/aivanahq/aivana-backend/internal/products"
	"github.com/aivanahq/aivana-backend/pkg/chain"
	"github.com/aivanahq/aivana-backend/pkg/db"
	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
	"github.com/aivanahq/aivana-backend/pkg/locks"
	"github.com/aivanahq/aivana-backend/pkg/logger"
	"github.com/aivanahq/aivana-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// ChainReader is the chain surface the verification flow needs.
type ChainReader interface {
	GetTransactionByHash(ctx context.Context, hash string) (*chain.Transaction, error)
}

// Service verifies on-chain payments against cart sessions and settles them.
type Service struct {
	db             *gorm.DB
	carts          *cart.Repository
	products       *products.Repository
	transactions   *Repository
	chain          ChainReader
	locker         locks.SessionLocker
	merchantWallet string
	logg           *logger.Logger
	metrics        *metrics.AgentMetrics
}

func NewService(
	dbConn *gorm.DB,
	carts *cart.Repository,
	productRepo *products.Repository,
	transactions *Repository,
	chainReader ChainReader,
	locker locks.SessionLocker,
	merchantWallet string,
	logg *logger.Logger,
	agentMetrics *metrics.AgentMetrics,
) *Service {
	return &Service{
		db:             dbConn,
		carts:          carts,
		products:       productRepo,
		transactions:   transactions,
		chain:          chainReader,
		locker:         locker,
		merchantWallet: merchantWallet,
		logg:           logg,
		metrics:        agentMetrics,
	}
}

// Verify checks the chain transaction against the session's cart and, when
// every rule passes, marks the session paid, records settlement rows and
// decrements stock in one database transaction. Replaying the same
// transaction for the same session returns the recorded result without
// touching stock again.
func (s *Service) Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	result, err := s.verify(ctx, input)
	if err != nil {
		s.metrics.IncSettlement("rejected")
		return nil, err
	}
	s.metrics.IncSettlement("verified")
	return result, nil
}

func (s *Service) verify(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	transactionID := strings.TrimSpace(input.TransactionID)
	sessionID := strings.TrimSpace(input.SessionID)
	if transactionID == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "transaction id is required")
	}
	if sessionID == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "session id is required")
	}
	if s.merchantWallet == "" {
		return nil, apperrors.New(apperrors.CodeInternal, "merchant wallet is not configured")
	}

	release, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "acquiring session lock")
	}
	defer release()

	// A transaction hash settles at most one session.
	claimed, err := s.carts.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "checking transaction uniqueness")
	}
	if claimed != nil && claimed.SessionID != sessionID {
		return nil, apperrors.New(
			apperrors.CodePaymentRule,
			fmt.Sprintf("Transaction ID %s already exists for another session", transactionID),
		)
	}

	tx, err := s.chain.GetTransactionByHash(ctx, transactionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "looking up chain transaction")
	}
	if tx == nil {
		return nil, apperrors.New(
			apperrors.CodePaymentRule,
			fmt.Sprintf("Transaction %s not found on the blockchain", transactionID),
		)
	}
	if !tx.Confirmed() {
		return nil, apperrors.New(
			apperrors.CodePaymentRule,
			fmt.Sprintf("Transaction %s has not been confirmed yet", transactionID),
		)
	}
	if !strings.EqualFold(tx.To, s.merchantWallet) {
		return nil, apperrors.New(
			apperrors.CodePaymentRule,
			fmt.Sprintf("Payment was not sent to the correct wallet. Expected: %s, Got: %s", s.merchantWallet, tx.To),
		)
	}

	buyerWallet := strings.TrimSpace(input.BuyerWalletID)
	if buyerWallet == "" {
		buyerWallet = tx.From
	}

	// Same transaction, same session: replay the recorded settlement.
	if claimed != nil && claimed.IsPaid() {
		return s.replay(ctx, claimed, tx, buyerWallet)
	}

	session, err := s.carts.FindBySessionID(ctx, sessionID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(
				apperrors.CodePaymentRule,
				fmt.Sprintf("Cart is empty for session %s", sessionID),
			)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart session")
	}

	// A session settles exactly once. The same-hash replay returned above,
	// so a paid session seen here is being re-settled under a new hash.
	if session.IsPaid() {
		return nil, apperrors.New(
			apperrors.CodePaymentRule,
			fmt.Sprintf("Session %s has already been paid", sessionID),
		)
	}

	items, err := s.carts.ListItems(ctx, session.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart items")
	}
	if len(items) == 0 {
		return nil, apperrors.New(
			apperrors.CodePaymentRule,
			fmt.Sprintf("Cart is empty for session %s", sessionID),
		)
	}

	expectedTotal := decimal.Zero
	settlementRows := make([]models.Transaction, 0, len(items))
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			return nil, apperrors.New(apperrors.CodeInternal, "cart item missing product")
		}
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		expectedTotal = expectedTotal.Add(lineTotal)
		settlementRows = append(settlementRows, models.Transaction{
			ChainTxHash: transactionID,
			SessionID:   sessionID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
			TotalPrice:  lineTotal,
			Currency:    item.Product.Currency,
			BuyerWallet: &buyerWallet,
			Status:      enums.TransactionConfirmed,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		session.Status = enums.CartSessionPaid
		session.TransactionID = &transactionID
		session.BuyerWalletID = &buyerWallet
		if err := s.carts.WithTx(txDB).Save(ctx, session); err != nil {
			return fmt.Errorf("marking session paid: %w", err)
		}

		for i := range items {
			item := &items[i]
			if err := s.products.WithTx(txDB).DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if db.IsNotFound(err) {
					return apperrors.New(
						apperrors.CodePaymentRule,
						fmt.Sprintf("not enough stock for %s", item.Product.Name),
					)
				}
				return fmt.Errorf("decrementing stock: %w", err)
			}
		}

		if err := s.transactions.WithTx(txDB).CreateBatch(ctx, settlementRows); err != nil {
			return fmt.Errorf("recording settlement: %w", err)
		}
		return nil
	})
	if err != nil {
		if typed := apperrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "settling payment")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"session_id":     sessionID,
		"transaction_id": transactionID,
		"total":          expectedTotal.StringFixed(2),
		"items":          len(items),
	}), "payment verified")

	return &VerifyResult{
		Success: true,
		Message: fmt.Sprintf(
			"Payment verified successfully. Transaction ID: %s, Session: %s",
			transactionID, sessionID,
		),
		TransactionDetails: detailsFromChain(transactionID, tx),
		ExpectedAmount:     expectedTotal.StringFixed(2),
		ItemsPurchased:     len(items),
		BuyerWalletID:      buyerWallet,
	}, nil
}

// replay rebuilds the success payload from settlement rows so a repeated
// verification cannot decrement stock twice.
func (s *Service) replay(ctx context.Context, session *models.CartSession, tx *chain.Transaction, buyerWallet string) (*VerifyResult, error) {
	rows, err := s.transactions.ListBySession(ctx, session.SessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading settlement rows")
	}

	total := decimal.Zero
	for i := range rows {
		total = total.Add(rows[i].TotalPrice)
	}
	if session.BuyerWalletID != nil && *session.BuyerWalletID != "" {
		buyerWallet = *session.BuyerWalletID
	}

	transactionID := session.SessionID
	if session.TransactionID != nil {
		transactionID = *session.TransactionID
	}

	return &VerifyResult{
		Success: true,
		Message: fmt.Sprintf(
			"Payment verified successfully. Transaction ID: %s, Session: %s",
			transactionID, session.SessionID,
		),
		TransactionDetails: detailsFromChain(transactionID, tx),
		ExpectedAmount:     total.StringFixed(2),
		ItemsPurchased:     len(rows),
		BuyerWalletID:      buyerWallet,
	}, nil
}

func detailsFromChain(transactionID string, tx *chain.Transaction) TransactionDetails {
	details := TransactionDetails{
		ID:     transactionID,
		Amount: tx.Value.String(),
		To:     tx.To,
		From:   tx.From,
	}
	if tx.BlockNumber != nil {
		details.BlockNumber = *tx.BlockNumber
	}
	return details
}

// Lookup fetches a transaction straight from the chain without settling it.
func (s *Service) Lookup(ctx context.Context, hash string) (*TransactionDetails, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "transaction hash is required")
	}
	tx, err := s.chain.GetTransactionByHash(ctx, hash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "chain lookup")
	}
	if tx == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("Transaction %s not found on the blockchain", hash))
	}
	details := detailsFromChain(hash, tx)
	return &details, nil
}

// Recent returns the latest settlement rows across all sessions.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.transactions.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading settlement rows")
	}
	return rows, nil
}

// History returns settlement rows for a session.
func (s *Service) History(ctx context.Context, sessionID string) ([]models.Transaction, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "session id is required")
	}
	rows, err := s.transactions.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading settlement rows")
	}
	return rows, nil
}
