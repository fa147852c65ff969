package card

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/jonanatree/securitycard/card/models"
	"github.com/jonanatree/securitycard/internal/secret"
)

var (
	ErrSecretMismatch     = fmt.Errorf("CVV is incorrect")
	ErrExpiryMismatch     = fmt.Errorf("expiry date is incorrect")
	ErrMissingCredentials = fmt.Errorf("username and password are required")
)

// shopPrices is the fixed price table matched case-insensitively by
// substring, first entry wins. The longer name sits first so
// "iphone 16 plus" does not resolve to the base model price.
var shopPrices = []struct {
	Name  string
	Price int64
}{
	{"iphone 16 plus", 4999},
	{"iphone 16", 3199},
}

// Service orchestrates transactions against the store and pushes updates to
// observers through the hub.
type Service struct {
	store   *Store
	hub     *Hub
	rotator *secret.Rotator
	cfg     *Config
	logger  *slog.Logger

	// txMu serializes whole transactions, not just individual store
	// mutations: two concurrent requests carrying the same secret must not
	// both pass validation before either rotates it.
	txMu sync.Mutex
}

func NewService(store *Store, hub *Hub, rotator *secret.Rotator, cfg *Config, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		hub:     hub,
		rotator: rotator,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "service")),
	}
}

// SubmitTransaction validates the request against the current card state,
// rotates the secret, debits both balances and notifies observers. On a
// validation failure nothing is mutated and nothing is broadcast. Past
// validation, the transaction cannot fail.
func (s *Service) SubmitTransaction(req models.TransactionRequest) (*models.TransactionResult, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	current := s.store.Card()

	if req.Secret != current.Secret {
		s.logger.Info("rejected transaction", "reason", "cvv mismatch")
		return nil, ErrSecretMismatch
	}
	if req.Expiry != current.Expiry {
		s.logger.Info("rejected transaction", "reason", "expiry mismatch")
		return nil, ErrExpiryMismatch
	}

	amount := s.resolveAmount(req)

	oldSecret := current.Secret
	newSecret := s.rotator.Next()
	s.store.SetSecret(newSecret)

	// Observers learn the rotated secret before the debit lands; the
	// second secret_update carries the post-debit balance.
	s.hub.Broadcast(models.Event{
		Type:      models.EventSecretUpdate,
		NewSecret: newSecret,
		Balance:   current.Balance,
		Timestamp: timestamp(),
	})

	newCardBalance, newAccountBalance := s.store.ApplyTransaction(amount)

	s.hub.Broadcast(models.Event{
		Type:      models.EventSecretUpdate,
		NewSecret: newSecret,
		Balance:   newCardBalance,
		Timestamp: timestamp(),
	})

	mainBalance := newAccountBalance
	s.hub.Broadcast(models.Event{
		Type:        models.EventTransactionComplete,
		NewSecret:   newSecret,
		Balance:     newCardBalance,
		MainBalance: &mainBalance,
		Timestamp:   timestamp(),
	})

	s.logger.Info("transaction processed",
		slog.Int64("amount", amount),
		slog.Int64("card_balance", newCardBalance),
		slog.Int64("account_balance", newAccountBalance),
	)

	return &models.TransactionResult{
		Amount:            amount,
		OldSecret:         oldSecret,
		NewSecret:         newSecret,
		NewCardBalance:    newCardBalance,
		NewAccountBalance: newAccountBalance,
	}, nil
}

// resolveAmount picks the transaction amount: an explicit price wins, then
// the first price-table entry whose name is contained in the product name,
// then the default.
func (s *Service) resolveAmount(req models.TransactionRequest) int64 {
	if req.ProductPrice != nil && *req.ProductPrice > 0 {
		return int64(*req.ProductPrice)
	}

	if req.ProductName != "" {
		name := strings.ToLower(req.ProductName)
		for _, entry := range shopPrices {
			if strings.Contains(name, entry.Name) {
				return entry.Price
			}
		}
	}

	return s.cfg.DefaultPrice
}

// Login accepts any non-empty credential pair and hands out an opaque
// session token. Demo only, there is no credential store.
func (s *Service) Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrMissingCredentials
	}

	return uuid.New().String(), nil
}

// RequestNewCard generates an opaque identifier for a card request; no card
// is actually issued.
func (s *Service) RequestNewCard() string {
	return "SEC_" + secret.Digits(8)
}

// ToggleFreeze flips the card's active state and returns the new value.
func (s *Service) ToggleFreeze() bool {
	return s.store.ToggleActive()
}

// CreditCardBalance tops up the card balance only.
func (s *Service) CreditCardBalance(amount int64) (newCardBalance, newAccountBalance int64, err error) {
	return s.store.CreditCardBalance(amount)
}

func (s *Service) CardInfo() models.CardRecord {
	return s.store.Card()
}

func (s *Service) AccountBalance() int64 {
	return s.store.AccountBalance()
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
