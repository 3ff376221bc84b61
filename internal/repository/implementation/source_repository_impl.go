package implementation

import (
	"context"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/mapper"
	"notebooklm-be/internal/model"
	"notebooklm-be/internal/repository/contract"
	"notebooklm-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SourceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SourceMapper
}

func NewSourceRepository(db *gorm.DB) contract.SourceRepository {
	return &SourceRepositoryImpl{
		db:     db,
		mapper: mapper.NewSourceMapper(),
	}
}

func (r *SourceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error) {
	var models []*model.Source
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// UpsertBulk inserts new sources and refreshes the title and type of known
// ones. Bibliographic columns filled in locally are left untouched.
func (r *SourceRepositoryImpl) UpsertBulk(ctx context.Context, sources []*entity.Source) error {
	if len(sources) == 0 {
		return nil
	}
	models := make([]*model.Source, len(sources))
	for i, s := range sources {
		models[i] = r.mapper.ToModel(s)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "source_type"}),
		}).
		Create(&models).Error
}
