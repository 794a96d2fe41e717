package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("accepts two fractional digits", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("150.25"))
		require.NoError(t, err)
		assert.Equal(t, "150.25", m.String())
	})

	t.Run("accepts trailing zeros beyond two places", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("75.000"))
		require.NoError(t, err)
		assert.Equal(t, "75.00", m.String())
	})

	t.Run("rejects sub-cent precision", func(t *testing.T) {
		_, err := NewMoney(decimal.RequireFromString("10.005"))
		assert.ErrorIs(t, err, ErrTooManyDecimals)
	})

	t.Run("accepts the column maximum", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("99999999.99"))
		require.NoError(t, err)
		assert.Equal(t, "99999999.99", m.String())

		_, err = NewMoney(decimal.RequireFromString("-99999999.99"))
		assert.NoError(t, err)
	})

	t.Run("rejects amounts beyond the column maximum", func(t *testing.T) {
		_, err := NewMoney(decimal.RequireFromString("100000000"))
		assert.ErrorIs(t, err, ErrOutOfRange)

		_, err = NewMoney(decimal.RequireFromString("-100000000.00"))
		assert.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString(" 99.9 ")
		require.NoError(t, err)
		assert.Equal(t, "99.90", m.String())
	})

	t.Run("non numeric", func(t *testing.T) {
		_, err := NewMoneyFromString("abc")
		assert.ErrorIs(t, err, ErrNotNumeric)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustMoney("75.00")
	b := MustMoney("100.00")

	assert.Equal(t, "175.00", a.Add(b).String())
	assert.Equal(t, "-25.00", a.Subtract(b).String())
	assert.True(t, a.Subtract(b).IsNegative())
	assert.True(t, a.LessThan(b))
	assert.True(t, a.Add(a).GreaterThanOrEqual(MustMoney("150")))
	assert.True(t, SumMoney(a, a, b).Equals(MustMoney("250")))
	assert.True(t, SumMoney().IsZero())
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(MustMoney("150"))
	require.NoError(t, err)
	assert.Equal(t, `"150.00"`, string(data))

	var fromString, fromNumber Money
	require.NoError(t, json.Unmarshal([]byte(`"12.50"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`12.5`), &fromNumber))
	assert.True(t, fromString.Equals(fromNumber))

	var bad Money
	assert.Error(t, json.Unmarshal([]byte(`"1.234"`), &bad))
}

func TestMoney_ValueScan(t *testing.T) {
	v, err := MustMoney("42.1").Value()
	require.NoError(t, err)
	assert.Equal(t, "42.10", v)

	var m Money
	require.NoError(t, m.Scan([]byte("42.10")))
	assert.Equal(t, "42.10", m.String())
}

func TestMoneyOf_RoundsDriverNoise(t *testing.T) {
	m := MoneyOf(decimal.NewFromFloat(0.1).Add(decimal.NewFromFloat(0.2)))
	assert.Equal(t, "0.30", m.String())
	assert.Equal(t, "150.00", MoneyOf(decimal.NewFromInt(150)).String())
}
