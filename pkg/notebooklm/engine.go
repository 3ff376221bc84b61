package notebooklm

import "context"

// Engine is the document-QA capability the query pipeline drives.
type Engine interface {
	Ask(ctx context.Context, notebookId, question string, conversationId *string) (*AskResult, error)
	GetFulltext(ctx context.Context, notebookId, sourceId string) (*Fulltext, error)
	ListNotebooks(ctx context.Context) ([]NotebookSummary, error)
	ListSources(ctx context.Context, notebookId string) ([]SourceSummary, error)
}

// AskResult is the engine's answer, normalised once at the client boundary.
type AskResult struct {
	Answer         string
	ConversationId string
	TurnNumber     int
	IsFollowUp     bool
	References     []ChatReference
}

// ChatReference is one citation reference returned with an answer. Optional
// fields are nil when the engine omitted them.
type ChatReference struct {
	SourceId       *string
	CitationNumber int
	CitedText      *string
	StartChar      *int
	EndChar        *int
}

type NotebookSummary struct {
	Id    string
	Title string
}

// SourceSummary is one document of a notebook as the engine lists it. Type is
// empty when the engine does not report one.
type SourceSummary struct {
	Id    string
	Title string
	Type  string
}

// FulltextFetcher is the slice of Engine the citation enricher needs.
type FulltextFetcher interface {
	GetFulltext(ctx context.Context, notebookId, sourceId string) (*Fulltext, error)
}
