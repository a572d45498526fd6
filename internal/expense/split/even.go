package split

import "github.com/shopspring/decimal"

// EvenStrategy divides the expense equally among all participants
type EvenStrategy struct{}

// Type returns the split type identifier
func (s *EvenStrategy) Type() Type {
	return TypeEven
}

// Validate checks if the inputs are valid for an even split
func (s *EvenStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if total.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Calculate divides the total amount evenly among all participants.
// The first participant absorbs the rounding remainder so the shares
// sum exactly to the total.
func (s *EvenStrategy) Calculate(total decimal.Decimal, participants []Input) ([]Output, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(len(participants)))
	share := total.Div(n).Round(2)
	remainder := total.Sub(share.Mul(n)).Round(2)

	outputs := make([]Output, len(participants))
	for i, p := range participants {
		amount := share
		if i == 0 {
			amount = amount.Add(remainder)
		}
		outputs[i] = Output{UserID: p.UserID, Amount: amount}
	}

	return outputs, nil
}
