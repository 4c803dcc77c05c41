package maney

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency estimated values are displayed in.
var DefaultCurrency = "EUR"

// Value represents the estimated value of an asset, as a major unit amount.
type Value struct {
	value decimal.Decimal
}

// V returns the Value for a number.
func V[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Value {
	return Value{value: newDecimal(value)}
}

func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// ParseValue coerces form text into a Value.
//
// Unparsable text is 0, like an empty field.
func ParseValue(text string) Value {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return Value{}
	}
	return Value{value: d}
}

// currency returns the display currency, never nil.
func currency(code string) money.Currency {
	return *money.New(0, code).Currency()
}

// Format returns the value formatted in the given currency, e.g. "€1,500.00".
func (v Value) Format(code string) string {
	cur := currency(code)
	dec := v.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// Display returns the value formatted in the DefaultCurrency.
func (v Value) Display() string { return v.Format(DefaultCurrency) }

// String returns the plain decimal representation, as typed in a form.
func (v Value) String() string { return v.value.String() }

func (v Value) Decimal() decimal.Decimal { return v.value }
func (v Value) IsZero() bool             { return v.value.IsZero() }
func (v Value) IsNegative() bool         { return v.value.IsNegative() }
func (v Value) Equal(w Value) bool       { return v.value.Equal(w.value) }
func (v Value) Add(w Value) Value        { return Value{value: v.value.Add(w.value)} }

// MarshalJSON encodes the value as a JSON number.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.value.String()), nil
}

// UnmarshalJSON accepts a JSON number, a quoted number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	return v.value.UnmarshalJSON(data)
}
