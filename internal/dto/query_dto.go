package dto

import "time"

type AskQueryRequest struct {
	Question       string  `json:"question" validate:"required,min=1,max=5000"`
	ConversationId *string `json:"conversation_id" validate:"omitempty,max=255"`
}

type CitationResponse struct {
	Id             uint    `json:"id"`
	CitationNumber int     `json:"citation_number"`
	SourceId       *string `json:"source_id"`
	SourceTitle    *string `json:"source_title"`
	SourceAuthors  *string `json:"source_authors"`
	SourceDate     *string `json:"source_date"`
	CitedText      *string `json:"cited_text"`
	StartChar      *int    `json:"start_char"`
	EndChar        *int    `json:"end_char"`
}

type QueryResponse struct {
	Id             uint                   `json:"id"`
	NotebookId     string                 `json:"notebook_id"`
	Question       string                 `json:"question"`
	Answer         *string                `json:"answer"`
	Status         string                 `json:"status"`
	ConversationId *string                `json:"conversation_id"`
	TurnNumber     *int                   `json:"turn_number"`
	BatchId        *string                `json:"batch_id,omitempty"`
	AskedAt        time.Time              `json:"asked_at"`
	AnsweredAt     *time.Time             `json:"answered_at"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Citations      []*CitationResponse    `json:"citations"`
}

type QueryListItem struct {
	Id            uint       `json:"id"`
	Question      string     `json:"question"`
	Status        string     `json:"status"`
	AskedAt       time.Time  `json:"asked_at"`
	AnsweredAt    *time.Time `json:"answered_at"`
	CitationCount int        `json:"citation_count"`
}

type QueryListResponse struct {
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Queries []*QueryListItem `json:"queries"`
}
