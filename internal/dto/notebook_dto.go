package dto

import "time"

type NotebookResponse struct {
	Id           string     `json:"id"`
	Title        string     `json:"title"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	SourceCount  int        `json:"source_count"`
	IsActive     bool       `json:"is_active"`
}

type NotebookSyncResponse struct {
	Notebooks []*NotebookResponse `json:"notebooks"`
	Sources   int                 `json:"sources"`
	Failed    []string            `json:"failed"`
	SyncedAt  time.Time           `json:"synced_at"`
}
