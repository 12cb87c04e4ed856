package commands

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
)

const (
	minOTPLength     = 4
	defaultOTPLength = 6
)

// IssuedOTP is returned once to the caller, which hands the code to the
// customer through a notification channel. Only a hash is stored.
type IssuedOTP struct {
	Code      string
	ExpiresAt time.Time
}

// IssueDeliveryOTPCommandHandler generates a numeric delivery code for a
// Processing or Shipped order and stores it with a TTL, replacing any earlier code.
type IssueDeliveryOTPCommandHandler struct {
	uowFactory OrderUoWFactory
	store      ports.OTPStore
	length     int
	ttl        time.Duration
}

func NewIssueDeliveryOTPCommandHandler(
	uowFactory OrderUoWFactory,
	store ports.OTPStore,
	length int,
	ttl time.Duration,
) IssueDeliveryOTPCommandHandler {
	if length < minOTPLength {
		length = defaultOTPLength
	}
	return IssueDeliveryOTPCommandHandler{
		uowFactory: uowFactory,
		store:      store,
		length:     length,
		ttl:        ttl,
	}
}

func (h IssueDeliveryOTPCommandHandler) Handle(ctx context.Context, command IssueDeliveryOTPCommand) (IssuedOTP, error) {
	if err := command.Validate(); err != nil {
		return IssuedOTP{}, err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return IssuedOTP{}, err
	}

	if err = o.CheckDeliveryOTPIssuer(command.Actor()); err != nil {
		return IssuedOTP{}, err
	}

	code, err := generateNumericCode(h.length)
	if err != nil {
		return IssuedOTP{}, err
	}

	if err = h.store.Save(ctx, o.ID(), code, h.ttl); err != nil {
		return IssuedOTP{}, err
	}

	return IssuedOTP{Code: code, ExpiresAt: time.Now().UTC().Add(h.ttl)}, nil
}

func generateNumericCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	ten := big.NewInt(10)
	for range length {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
