package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type otpBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DeliveryOTPKey(orderID string) string
}

var _ ports.OTPStore = (*OTPStore)(nil)

// OTPStore implements ports.OTPStore. Codes are kept as bcrypt hashes under a
// per-order key. Verify leaves the code in place; Consume removes it.
type OTPStore struct {
	backend otpBackend
	cost    int
}

// NewOTPStore creates a store hashing codes with the given bcrypt cost.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewOTPStore(backend otpBackend, cost int) (*OTPStore, error) {
	if backend == nil {
		return nil, errs.NewValueIsRequiredError("backend")
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &OTPStore{backend: backend, cost: cost}, nil
}

// Save replaces any code previously issued for orderID.
func (s *OTPStore) Save(ctx context.Context, orderID kernel.UUID, code string, ttl time.Duration) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("delivery code")
	}
	if ttl <= 0 {
		return errs.NewValueIsOutOfRangeError("delivery code ttl", ttl, "1ns", "unbounded")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cost)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, s.backend.DeliveryOTPKey(orderID.String()), string(hash), ttl)
}

// Verify checks code against the code issued for orderID. The code stays valid
// until Consume is called, so a retried transition can verify it again.
func (s *OTPStore) Verify(ctx context.Context, orderID kernel.UUID, code string) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("delivery code")
	}

	key := s.backend.DeliveryOTPKey(orderID.String())
	hash, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return errs.NewValueIsRequiredErrorWithCause("delivery code", errors.New("no code issued or code expired"))
		}
		return err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return errs.NewValueIsInvalidError("delivery code")
		}
		return err
	}
	return nil
}

// Consume removes the code issued for orderID once the delivery was committed.
func (s *OTPStore) Consume(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	return s.backend.Del(ctx, s.backend.DeliveryOTPKey(orderID.String()))
}
