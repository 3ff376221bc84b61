package entity

import "time"

type Notebook struct {
	Id           string
	Title        string
	CreatedAt    time.Time
	LastSyncedAt *time.Time
	SourceCount  int
	IsActive     bool
}
