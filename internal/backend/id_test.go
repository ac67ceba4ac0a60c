package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDDecodesNumbersAndStrings(t *testing.T) {
	var got struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "u-7", "c": null}`), &got))
	assert.Equal(t, ID("42"), got.A)
	assert.Equal(t, ID("u-7"), got.B)
	assert.Equal(t, ID(""), got.C)
}

func TestIDEncodesIntegersAsNumbers(t *testing.T) {
	out, err := json.Marshal(map[string]ID{"a": "42", "b": "u-7", "c": ""})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 42, "b": "u-7", "c": null}`, string(out))
}
