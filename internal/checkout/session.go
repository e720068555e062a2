// Package checkout holds the transient two-step checkout session: a cart
// review step and a checkout step collecting delivery method and the
// mobile-money transaction id.
package checkout

import (
	"errors"
	"strings"
)

type Step string

const (
	StepCart     Step = "cart"
	StepCheckout Step = "checkout"
)

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

var (
	ErrInvalidDelivery   = errors.New("checkout: unknown delivery method")
	ErrTransactionID     = errors.New("checkout: transaction id is required")
	ErrNotAtCheckoutStep = errors.New("checkout: session is not at the checkout step")
	ErrSessionNotFound   = errors.New("checkout: no active session")
)

type Session struct {
	UserID         uint           `json:"user_id"`
	Step           Step           `json:"step"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	TransactionID  string         `json:"transaction_id"`
}

// NewSession starts at the checkout step with pickup preselected; the cart
// step is where the user came from.
func NewSession(userID uint) *Session {
	return &Session{
		UserID:         userID,
		Step:           StepCheckout,
		DeliveryMethod: DeliveryPickup,
	}
}

// Back returns to the cart review step. Always permitted; entered details
// are kept so the user can resume.
func (s *Session) Back() {
	s.Step = StepCart
}

// Resume moves back to the checkout step.
func (s *Session) Resume() {
	s.Step = StepCheckout
}

func (s *Session) SetDeliveryMethod(m DeliveryMethod) error {
	if m != DeliveryPickup && m != DeliveryDelivery {
		return ErrInvalidDelivery
	}
	s.DeliveryMethod = m
	return nil
}

func (s *Session) SetTransactionID(id string) {
	s.TransactionID = strings.TrimSpace(id)
}

// ReadyToSubmit reports whether the session may be turned into an order:
// the user must be at the checkout step with a non-empty transaction id.
func (s *Session) ReadyToSubmit() error {
	if s.Step != StepCheckout {
		return ErrNotAtCheckoutStep
	}
	if strings.TrimSpace(s.TransactionID) == "" {
		return ErrTransactionID
	}
	return nil
}
