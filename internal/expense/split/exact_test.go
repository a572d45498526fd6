package split

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exactInput(amount string) Input {
	a := amt(amount)
	return Input{UserID: uuid.New(), Amount: &a}
}

func TestExactStrategyCalculate(t *testing.T) {
	strategy := &ExactStrategy{}

	t.Run("returns the specified amounts", func(t *testing.T) {
		participants := []Input{exactInput("60.00"), exactInput("25.00"), exactInput("15.00")}

		outputs, err := strategy.Calculate(amt("100.00"), participants)

		require.NoError(t, err)
		require.Len(t, outputs, 3)
		assert.True(t, outputs[0].Amount.Equal(amt("60.00")))
		assert.True(t, outputs[1].Amount.Equal(amt("25.00")))
		assert.True(t, outputs[2].Amount.Equal(amt("15.00")))
	})

	t.Run("accepts a sum within one cent of the total", func(t *testing.T) {
		participants := []Input{exactInput("33.33"), exactInput("33.33"), exactInput("33.33")}

		_, err := strategy.Calculate(amt("100.00"), participants)

		assert.NoError(t, err)
	})

	t.Run("rejects a sum off by more than one cent", func(t *testing.T) {
		participants := []Input{exactInput("50.00"), exactInput("45.00")}

		_, err := strategy.Calculate(amt("100.00"), participants)

		assert.ErrorIs(t, err, ErrSplitMismatch)
	})

	t.Run("rejects participants without an amount", func(t *testing.T) {
		participants := []Input{exactInput("50.00"), {UserID: uuid.New()}}

		_, err := strategy.Calculate(amt("100.00"), participants)

		assert.ErrorIs(t, err, ErrMissingExactAmount)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		participants := []Input{exactInput("110.00"), exactInput("-10.00")}

		_, err := strategy.Calculate(amt("100.00"), participants)

		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("rejects no participants", func(t *testing.T) {
		_, err := strategy.Calculate(amt("100.00"), nil)

		assert.ErrorIs(t, err, ErrNoParticipants)
	})

	t.Run("rounds amounts to cents", func(t *testing.T) {
		participants := []Input{exactInput("49.995"), exactInput("50.005")}

		outputs, err := strategy.Calculate(amt("100.00"), participants)

		require.NoError(t, err)
		assert.True(t, outputs[0].Amount.Equal(decimal.RequireFromString("50.00")))
		assert.True(t, outputs[1].Amount.Equal(decimal.RequireFromString("50.01")))
	})
}
