package mapper

import (
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/model"
)

type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToEntity(n *model.Notebook) *entity.Notebook {
	if n == nil {
		return nil
	}
	return &entity.Notebook{
		Id:           n.Id,
		Title:        n.Title,
		CreatedAt:    n.CreatedAt,
		LastSyncedAt: n.LastSyncedAt,
		SourceCount:  n.SourceCount,
		IsActive:     n.IsActive,
	}
}

func (m *NotebookMapper) ToModel(n *entity.Notebook) *model.Notebook {
	if n == nil {
		return nil
	}
	return &model.Notebook{
		Id:           n.Id,
		Title:        n.Title,
		CreatedAt:    n.CreatedAt,
		LastSyncedAt: n.LastSyncedAt,
		SourceCount:  n.SourceCount,
		IsActive:     n.IsActive,
	}
}

func (m *NotebookMapper) ToEntities(notebooks []*model.Notebook) []*entity.Notebook {
	entities := make([]*entity.Notebook, len(notebooks))
	for i, n := range notebooks {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
