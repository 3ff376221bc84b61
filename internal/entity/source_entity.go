package entity

import "time"

// Source is a document uploaded to a notebook. The query pipeline only reads
// its bibliographic fields.
type Source struct {
	Id              string
	NotebookId      string
	Title           string
	SourceType      string
	FileName        *string
	Status          string
	Authors         *string
	PublicationDate *string
	UploadedAt      time.Time
}
