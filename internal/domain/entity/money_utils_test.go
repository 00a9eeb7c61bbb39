package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected string
		}{
			{"5000", "5000.00"},
			{"0.01", "0.01"},
			{"1.5", "1.50"},
			{" 250.25 ", "250.25"},
			{"10.500", "10.50"},
			{"1e3", "1000.00"},
			{"1500e-3", "1.50"},
			{"1E12", "1000000000000.00"},
			{"9999999999999.99", "9999999999999.99"},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				amount, err := ParseAmount(tc.input)
				require.NoError(t, err)
				assert.Equal(t, tc.expected, FormatAmount(amount))
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       string
			errorType   error
			description string
		}{
			{"", errs.ErrInvalidAmount, "Absent"},
			{"   ", errs.ErrInvalidAmount, "Whitespace only"},
			{"0", errs.ErrInvalidAmount, "Zero"},
			{"0.00", errs.ErrInvalidAmount, "Zero with decimals"},
			{"-1.00", errs.ErrInvalidAmount, "Negative amount"},
			{"1.234", errs.ErrInvalidAmount, "Too many decimal places"},
			{"abc", errs.ErrInvalidAmount, "Non-numeric"},
			{"NaN", errs.ErrInvalidAmount, "Not a number"},
			{"Infinity", errs.ErrInvalidAmount, "Infinite"},
			{"1,000.00", errs.ErrInvalidAmount, "Thousands separator"},
			{"$100", errs.ErrInvalidAmount, "Currency symbol"},
			{"10000000000000", errs.ErrAmountOverflow, "Too large for the column"},
			{"1e14", errs.ErrAmountOverflow, "Exponent past the column"},
			{"1e100000000", errs.ErrAmountOverflow, "Huge positive exponent"},
			{"1E2147483647", errs.ErrAmountOverflow, "Largest exponent"},
			{"1e-100000000", errs.ErrInvalidAmount, "Huge negative exponent"},
			{"1e-33", errs.ErrInvalidAmount, "Fraction below the exponent floor"},
			{"123456789012345678901234567890123", errs.ErrInvalidAmount, "Too many characters"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := ParseAmount(tc.input)
				assert.ErrorIs(t, err, tc.errorType)
			})
		}
	})
}

func TestParseAmount_ExponentFormsRejectedQuickly(t *testing.T) {
	inputs := []string{"1e1000000", "1e100000000", "1e-100000000", "-1e100000000"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			start := time.Now()

			_, err := ParseAmount(input)

			assert.Error(t, err)
			assert.Less(t, time.Since(start), 100*time.Millisecond)
		})
	}
}

func TestParseBalance(t *testing.T) {
	zero, err := ParseBalance("0.00")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	start, err := ParseBalance("100000.00")
	require.NoError(t, err)
	assert.True(t, start.Equal(decimal.NewFromInt(100000)))

	_, err = ParseBalance("-5")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "105000.00", FormatAmount(decimal.NewFromInt(105000)))
	assert.Equal(t, "0.10", FormatAmount(decimal.RequireFromString("0.1")))
}
