package split

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func inputs(n int) []Input {
	participants := make([]Input, n)
	for i := range participants {
		participants[i] = Input{UserID: uuid.New()}
	}
	return participants
}

func TestEvenStrategyCalculate(t *testing.T) {
	strategy := &EvenStrategy{}

	tests := []struct {
		name         string
		total        string
		participants int
		shares       []string
	}{
		{
			name:         "divides evenly",
			total:        "90.00",
			participants: 3,
			shares:       []string{"30.00", "30.00", "30.00"},
		},
		{
			name:         "first participant absorbs the rounding remainder",
			total:        "100.00",
			participants: 3,
			shares:       []string{"33.34", "33.33", "33.33"},
		},
		{
			name:         "single participant takes everything",
			total:        "12.75",
			participants: 1,
			shares:       []string{"12.75"},
		},
		{
			name:         "sub-cent remainder",
			total:        "0.05",
			participants: 2,
			shares:       []string{"0.02", "0.03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := strategy.Calculate(amt(tt.total), inputs(tt.participants))

			require.NoError(t, err)
			require.Len(t, outputs, tt.participants)

			sum := decimal.Zero
			for i, o := range outputs {
				assert.True(t, o.Amount.Equal(amt(tt.shares[i])),
					"share %d: want %s, got %s", i, tt.shares[i], o.Amount)
				sum = sum.Add(o.Amount)
			}
			assert.True(t, sum.Equal(amt(tt.total)), "shares must sum to the total")
		})
	}

	t.Run("rejects no participants", func(t *testing.T) {
		_, err := strategy.Calculate(amt("10.00"), nil)

		assert.ErrorIs(t, err, ErrNoParticipants)
	})

	t.Run("rejects negative totals", func(t *testing.T) {
		_, err := strategy.Calculate(amt("-10.00"), inputs(2))

		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}
