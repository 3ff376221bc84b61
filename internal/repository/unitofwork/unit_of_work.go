package unitofwork

import (
	"context"

	"notebooklm-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NotebookRepository() contract.NotebookRepository
	SourceRepository() contract.SourceRepository
	QueryRepository() contract.QueryRepository
	CitationRepository() contract.CitationRepository
}
