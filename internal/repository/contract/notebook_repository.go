package contract

import (
	"context"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/repository/specification"
)

type NotebookRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error)
	Upsert(ctx context.Context, notebook *entity.Notebook) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
