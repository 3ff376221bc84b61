package contract

import (
	"context"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/repository/specification"
)

type QueryRepository interface {
	Create(ctx context.Context, query *entity.Query) error
	CreateBulk(ctx context.Context, queries []*entity.Query) error
	Update(ctx context.Context, query *entity.Query) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Query, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Query, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
