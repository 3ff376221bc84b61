package contract

import (
	"context"

	"notebooklm-be/internal/entity"
)

type CitationRepository interface {
	CreateBulk(ctx context.Context, citations []*entity.Citation) error
	FindAllByQueryId(ctx context.Context, queryId uint) ([]*entity.Citation, error)
	CountByQueryIds(ctx context.Context, queryIds []uint) (map[uint]int, error)
}
