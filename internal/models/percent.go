package models

import (
	"encoding/json"
	"math"
)

// Percent is a percentage that may be undefined (zero denominator).
// An invalid Percent marshals as JSON null.
type Percent struct {
	Value float64
	Valid bool
}

func NewPercent(v float64) Percent {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Percent{}
	}
	return Percent{Value: v, Valid: true}
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Percent{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = NewPercent(v)
	return nil
}
