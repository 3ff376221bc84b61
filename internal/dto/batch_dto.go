package dto

type BatchQueryRequest struct {
	Questions    []string `json:"questions" validate:"required,min=1,max=100,dive,required,max=5000"`
	DelaySeconds *float64 `json:"delay_seconds" validate:"omitempty,gte=0,lte=30"`
}

type BatchQueryResponse struct {
	BatchId        string           `json:"batch_id"`
	NotebookId     string           `json:"notebook_id"`
	TotalQuestions int              `json:"total_questions"`
	Queries        []*QueryListItem `json:"queries"`
}

type BatchStatusResponse struct {
	BatchId   string           `json:"batch_id"`
	Total     int              `json:"total"`
	Completed int              `json:"completed"`
	Failed    int              `json:"failed"`
	Pending   int              `json:"pending"`
	Queries   []*QueryListItem `json:"queries"`
}

// PublishBatchMessage is the payload handed to the batch worker.
type PublishBatchMessage struct {
	BatchId    string `json:"batch_id"`
	NotebookId string `json:"notebook_id"`
	DelayMs    int64  `json:"delay_ms"`
}
