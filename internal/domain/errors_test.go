package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_OrNil(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.orNil())

	v.add("Business.Name", "is required")
	assert.Error(t, v.orNil())
	assert.Equal(t, "validation failed: Business.Name: is required", v.Error())
}

func TestValidationError_FieldsDeduplicated(t *testing.T) {
	v := &ValidationError{}
	v.add("b", "x")
	v.add("a", "y")
	v.add("b", "z")
	assert.Equal(t, []string{"a", "b"}, v.Fields())
	assert.True(t, v.Has("a"))
	assert.False(t, v.Has("c"))
}

func TestPaymentEncodingError_Unwrap(t *testing.T) {
	err := error(&PaymentEncodingError{Scheme: SchemePayPal, Reason: "no username", Err: ErrInvalidPaymentIdentifier})
	assert.ErrorIs(t, err, ErrInvalidPaymentIdentifier)
	assert.Equal(t, "payment encoding (paypal): no username: invalid payment identifier", err.Error())

	plain := &PaymentEncodingError{Reason: "too long"}
	assert.Equal(t, "payment encoding: too long", plain.Error())
}

func TestAssetLoadError_Unwrap(t *testing.T) {
	err := error(&AssetLoadError{Asset: "logo", Ref: "logo.png", Err: ErrAssetTimeout})
	assert.True(t, errors.Is(err, ErrAssetTimeout))
	assert.Contains(t, err.Error(), `loading logo asset "logo.png"`)
}

func TestExportError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := error(&ExportError{Stage: "write", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "export failed during write: disk full", err.Error())
}
