package mapper

import (
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/model"
)

type SourceMapper struct{}

func NewSourceMapper() *SourceMapper {
	return &SourceMapper{}
}

func (m *SourceMapper) ToEntity(s *model.Source) *entity.Source {
	if s == nil {
		return nil
	}
	return &entity.Source{
		Id:              s.Id,
		NotebookId:      s.NotebookId,
		Title:           s.Title,
		SourceType:      s.SourceType,
		FileName:        s.FileName,
		Status:          s.Status,
		Authors:         s.Authors,
		PublicationDate: s.PublicationDate,
		UploadedAt:      s.UploadedAt,
	}
}

func (m *SourceMapper) ToModel(s *entity.Source) *model.Source {
	if s == nil {
		return nil
	}
	return &model.Source{
		Id:              s.Id,
		NotebookId:      s.NotebookId,
		Title:           s.Title,
		SourceType:      s.SourceType,
		FileName:        s.FileName,
		Status:          s.Status,
		Authors:         s.Authors,
		PublicationDate: s.PublicationDate,
		UploadedAt:      s.UploadedAt,
	}
}

func (m *SourceMapper) ToEntities(sources []*model.Source) []*entity.Source {
	entities := make([]*entity.Source, len(sources))
	for i, s := range sources {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
