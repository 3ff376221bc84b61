package implementation

import (
	"context"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/mapper"
	"notebooklm-be/internal/model"
	"notebooklm-be/internal/repository/contract"

	"gorm.io/gorm"
)

type CitationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CitationMapper
}

func NewCitationRepository(db *gorm.DB) contract.CitationRepository {
	return &CitationRepositoryImpl{
		db:     db,
		mapper: mapper.NewCitationMapper(),
	}
}

func (r *CitationRepositoryImpl) CreateBulk(ctx context.Context, citations []*entity.Citation) error {
	if len(citations) == 0 {
		return nil
	}
	models := r.mapper.ToModels(citations)
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		citations[i].Id = m.Id
	}
	return nil
}

func (r *CitationRepositoryImpl) FindAllByQueryId(ctx context.Context, queryId uint) ([]*entity.Citation, error) {
	var models []model.Citation
	err := r.db.WithContext(ctx).
		Where("query_id = ?", queryId).
		Order("citation_number ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CitationRepositoryImpl) CountByQueryIds(ctx context.Context, queryIds []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(queryIds))
	if len(queryIds) == 0 {
		return counts, nil
	}

	var rows []struct {
		QueryId uint
		Total   int
	}
	err := r.db.WithContext(ctx).
		Model(&model.Citation{}).
		Select("query_id, COUNT(*) AS total").
		Where("query_id IN ?", queryIds).
		Group("query_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.QueryId] = row.Total
	}
	return counts, nil
}
