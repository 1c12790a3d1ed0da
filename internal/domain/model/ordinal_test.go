package model

import (
	"encoding/json"
	"testing"

	"gotest.tools/v3/assert"
)

func TestOrdinal(t *testing.T) {
	var zero Ordinal
	_, ok := zero.Get()
	assert.Assert(t, !ok, "zero value should be absent")
	assert.Equal(t, zero, None)
	assert.Equal(t, zero.String(), "-")
	assert.Equal(t, zero.OrElse(7), 7)

	o := Some(0)
	v, ok := o.Get()
	assert.Assert(t, ok)
	assert.Equal(t, v, 0)
	assert.Equal(t, o.String(), "0")
	assert.Equal(t, o.OrElse(7), 0)
}

func TestOrdinalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Key   Ordinal `json:"key"`
		Group Ordinal `json:"group"`
	}{Key: Some(3), Group: None})
	assert.NilError(t, err)
	assert.Equal(t, string(data), `{"key":3,"group":null}`)
}
