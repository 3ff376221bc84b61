package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryEvents(t *testing.T) {
	batch := "ab12cd34"

	completed := NewQueryCompleted("nb", 7, 3, &batch)
	assert.Equal(t, QueryCompleted, completed.EventType())
	assert.Equal(t, 3, completed.Payload()["citation_count"])
	assert.Equal(t, "ab12cd34", completed.Payload()["batch_id"])
	assert.False(t, completed.Timestamp().IsZero())

	failed := NewQueryFailed("nb", 8, "ExhaustedRetries", "boom", nil)
	assert.Equal(t, QueryFailed, failed.EventType())
	assert.NotContains(t, failed.Payload(), "batch_id")
}
