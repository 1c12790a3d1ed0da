package model

import (
	"encoding/json"
	"strconv"
)

// Ordinal is an optional non-negative position.
// The zero value is absent.
type Ordinal struct {
	value int
	valid bool
}

// None is the absent ordinal
var None = Ordinal{}

// Some returns a present ordinal
func Some(n int) Ordinal {
	return Ordinal{value: n, valid: true}
}

// Get returns the value and whether it is present
func (o Ordinal) Get() (int, bool) {
	return o.value, o.valid
}

// OrElse returns the value, or def when absent
func (o Ordinal) OrElse(def int) int {
	if !o.valid {
		return def
	}
	return o.value
}

func (o Ordinal) String() string {
	if !o.valid {
		return "-"
	}
	return strconv.Itoa(o.value)
}

// MarshalJSON renders an absent ordinal as null
func (o Ordinal) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// MarshalYAML renders an absent ordinal as null
func (o Ordinal) MarshalYAML() (interface{}, error) {
	if !o.valid {
		return nil, nil
	}
	return o.value, nil
}
