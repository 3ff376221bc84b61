package entity

import "time"

type QueryStatus string

const (
	QueryStatusPending   QueryStatus = "pending"
	QueryStatusCompleted QueryStatus = "completed"
	QueryStatusFailed    QueryStatus = "failed"
)

// Query is one question asked against one notebook.
// Answer and AnsweredAt are set only once the query completes.
type Query struct {
	Id             uint
	NotebookId     string
	Question       string
	Answer         *string
	ConversationId *string
	TurnNumber     *int
	BatchId        *string
	Status         QueryStatus
	AskedAt        time.Time
	AnsweredAt     *time.Time
	Metadata       map[string]interface{}

	Citations []*Citation
}

func (q *Query) IsTerminal() bool {
	return q.Status == QueryStatusCompleted || q.Status == QueryStatusFailed
}
