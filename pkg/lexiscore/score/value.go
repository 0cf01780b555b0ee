package score

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
)

// Value is a derived score that may be undefined. A zero denominator
// yields Valid == false, which is distinct from a true 0.
type Value struct {
	Float float64
	Valid bool
}

// Ratio returns num/den, or an undefined Value when den is 0.
func Ratio(num, den float64) Value {
	if den == 0 {
		return Value{}
	}
	return Value{Float: num / den, Valid: true}
}

// Get returns the score, or ErrUndefined.
func (v Value) Get() (float64, error) {
	if !v.Valid {
		return 0, internalerr.ErrUndefined
	}
	return v.Float, nil
}

func (v Value) String() string {
	if !v.Valid {
		return "NA"
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// MarshalJSON encodes an undefined value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON decodes null as undefined.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Value{Float: f, Valid: true}
	return nil
}
