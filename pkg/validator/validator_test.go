package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commandPayload struct {
	Do        string `json:"do" validate:"required,oneof=add remove clear check"`
	ProductID string `json:"product_id" validate:"max=128"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(commandPayload{Do: "add", ProductID: "prod-1"})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(commandPayload{ProductID: "prod-1"})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, valErr.Fields(), "Do")
	assert.Equal(t, "is required", valErr.Fields()["Do"])
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(commandPayload{Do: "drop"})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, valErr.Fields()["Do"], "must be one of")
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"do":"check","product_id":"p-9"}`))

	var payload commandPayload
	require.NoError(t, DecodeAndValidate(r, &payload))
	assert.Equal(t, "check", payload.Do)
	assert.Equal(t, "p-9", payload.ProductID)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))

	var payload commandPayload
	err := DecodeAndValidate(r, &payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
