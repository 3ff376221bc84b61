package events

import "time"

const (
	QueryCompleted = "query.completed"
	QueryFailed    = "query.failed"
	BatchCompleted = "batch.completed"
)

// Event defines the contract for all published lifecycle events.
type Event interface {
	// EventType is also the subject suffix, e.g. "query.completed".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewQueryCompleted(notebookId string, queryId uint, citationCount int, batchId *string) BaseEvent {
	data := map[string]interface{}{
		"notebook_id":    notebookId,
		"query_id":       queryId,
		"citation_count": citationCount,
	}
	if batchId != nil {
		data["batch_id"] = *batchId
	}
	return BaseEvent{Type: QueryCompleted, Data: data, OccurredAt: time.Now()}
}

func NewQueryFailed(notebookId string, queryId uint, errorType, message string, batchId *string) BaseEvent {
	data := map[string]interface{}{
		"notebook_id": notebookId,
		"query_id":    queryId,
		"error_type":  errorType,
		"error":       message,
	}
	if batchId != nil {
		data["batch_id"] = *batchId
	}
	return BaseEvent{Type: QueryFailed, Data: data, OccurredAt: time.Now()}
}

func NewBatchCompleted(notebookId, batchId string, completed, failed int) BaseEvent {
	return BaseEvent{
		Type: BatchCompleted,
		Data: map[string]interface{}{
			"notebook_id": notebookId,
			"batch_id":    batchId,
			"completed":   completed,
			"failed":      failed,
		},
		OccurredAt: time.Now(),
	}
}
