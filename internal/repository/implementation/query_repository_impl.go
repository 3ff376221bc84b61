package implementation

import (
	"context"
	"errors"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/mapper"
	"notebooklm-be/internal/model"
	"notebooklm-be/internal/repository/contract"
	"notebooklm-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QueryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QueryMapper
}

func NewQueryRepository(db *gorm.DB) contract.QueryRepository {
	return &QueryRepositoryImpl{
		db:     db,
		mapper: mapper.NewQueryMapper(),
	}
}

func (r *QueryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QueryRepositoryImpl) Create(ctx context.Context, query *entity.Query) error {
	m := r.mapper.ToModel(query)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	query.Id = m.Id
	return nil
}

func (r *QueryRepositoryImpl) CreateBulk(ctx context.Context, queries []*entity.Query) error {
	if len(queries) == 0 {
		return nil
	}
	models := make([]*model.Query, len(queries))
	for i, q := range queries {
		models[i] = r.mapper.ToModel(q)
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		queries[i].Id = m.Id
	}
	return nil
}

// Update writes every column, including ones going back to NULL.
func (r *QueryRepositoryImpl) Update(ctx context.Context, query *entity.Query) error {
	m := r.mapper.ToModel(query)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
}

func (r *QueryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Query, error) {
	var m model.Query
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QueryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Query, error) {
	var models []*model.Query
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *QueryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Query{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
