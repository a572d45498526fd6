package split

import "github.com/shopspring/decimal"

// ExactStrategy assigns each participant a specific amount; the
// amounts must sum to the expense total within a cent
type ExactStrategy struct{}

// Type returns the split type identifier
func (s *ExactStrategy) Type() Type {
	return TypeExact
}

// Validate checks that all participants carry an amount and that the
// amounts sum to the total within tolerance
func (s *ExactStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if total.IsNegative() {
		return ErrNegativeAmount
	}

	sum := decimal.Zero
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingExactAmount
		}
		if p.Amount.IsNegative() {
			return ErrNegativeAmount
		}
		sum = sum.Add(*p.Amount)
	}

	if sum.Sub(total).Abs().Cmp(tolerance) > 0 {
		return ErrSplitMismatch
	}

	return nil
}

// Calculate returns the exact amounts specified for each participant
func (s *ExactStrategy) Calculate(total decimal.Decimal, participants []Input) ([]Output, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	outputs := make([]Output, len(participants))
	for i, p := range participants {
		outputs[i] = Output{UserID: p.UserID, Amount: p.Amount.Round(2)}
	}

	return outputs, nil
}
