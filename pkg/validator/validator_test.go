package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(addRequest{ProductID: "p1", Quantity: 1}))
	assert.NoError(t, Validate(addRequest{ProductID: "p1"}))
}

func TestValidate_Failures(t *testing.T) {
	err := Validate(addRequest{Quantity: -1})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["ProductID"])
	assert.Equal(t, "must be greater than or equal to 0", fields["Quantity"])
	assert.Contains(t, valErr.Error(), "ProductID")
}
