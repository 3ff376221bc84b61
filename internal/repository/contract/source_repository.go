package contract

import (
	"context"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/repository/specification"
)

type SourceRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error)
	UpsertBulk(ctx context.Context, sources []*entity.Source) error
}
