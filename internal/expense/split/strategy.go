package split

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type defines the type of split strategy
type Type string

const (
	TypeEven  Type = "EVEN"
	TypeExact Type = "EXACT"
)

// Input represents a participant in a split. Amount is only set for
// exact splits.
type Input struct {
	UserID uuid.UUID        `json:"user_id"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// Output represents the calculated share for a single participant
type Output struct {
	UserID uuid.UUID       `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Strategy is the interface that all split strategies must implement.
// Every participant (the payer included) is assigned a share; the
// shares always sum to the total amount.
type Strategy interface {
	// Calculate computes the share for each participant
	Calculate(total decimal.Decimal, participants []Input) ([]Output, error)

	// Type returns the type identifier for this strategy
	Type() Type

	// Validate checks if the inputs are valid for this strategy
	Validate(total decimal.Decimal, participants []Input) error
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the given type
func (f *Factory) Create(splitType Type) (Strategy, error) {
	switch splitType {
	case TypeEven:
		return &EvenStrategy{}, nil
	case TypeExact:
		return &ExactStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split type: %s", splitType)
	}
}

var (
	ErrNoParticipants     = errors.New("at least one participant is required")
	ErrNegativeAmount     = errors.New("amounts cannot be negative")
	ErrMissingExactAmount = errors.New("exact amount required for all participants")
	ErrSplitMismatch      = errors.New("splits do not equal total amount")
)

// tolerance for comparing split sums against the expense total (one
// cent)
var tolerance = decimal.New(1, -2)
