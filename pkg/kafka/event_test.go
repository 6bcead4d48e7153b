package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type payload struct {
		UserID string `json:"user_id"`
		Items  int    `json:"items"`
	}

	evt, err := NewEvent("cart.updated", "user-1", "cart", "cartedge", payload{UserID: "user-1", Items: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "cart.updated", evt.EventType)
	assert.Equal(t, "user-1", evt.AggregateID)
	assert.Equal(t, "cart", evt.AggregateType)
	assert.Equal(t, 1, evt.Version)
	assert.Equal(t, "cartedge", evt.Source)
	assert.False(t, evt.Timestamp.IsZero())

	var decoded payload
	require.NoError(t, evt.UnmarshalData(&decoded))
	assert.Equal(t, 3, decoded.Items)
}

func TestEvent_CorrelationRoundTrip(t *testing.T) {
	evt, err := NewEvent("checkout.completed", "ord-1", "order", "cartedge", map[string]string{"k": "v"})
	require.NoError(t, err)
	evt.WithCorrelationID("corr-123")

	data, err := evt.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, "corr-123", decoded.CorrelationID)
	assert.Equal(t, evt.EventID, decoded.EventID)
}
