package mapper

import (
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/model"
)

type CitationMapper struct{}

func NewCitationMapper() *CitationMapper {
	return &CitationMapper{}
}

func (m *CitationMapper) ToEntity(c *model.Citation) *entity.Citation {
	if c == nil {
		return nil
	}
	return &entity.Citation{
		Id:             c.Id,
		QueryId:        c.QueryId,
		CitationNumber: c.CitationNumber,
		SourceId:       c.SourceId,
		SourceTitle:    c.SourceTitle,
		SourceAuthors:  c.SourceAuthors,
		SourceDate:     c.SourceDate,
		CitedText:      c.CitedText,
		StartChar:      c.StartChar,
		EndChar:        c.EndChar,
	}
}

func (m *CitationMapper) ToModel(c *entity.Citation) *model.Citation {
	if c == nil {
		return nil
	}
	return &model.Citation{
		Id:             c.Id,
		QueryId:        c.QueryId,
		CitationNumber: c.CitationNumber,
		SourceId:       c.SourceId,
		SourceTitle:    c.SourceTitle,
		SourceAuthors:  c.SourceAuthors,
		SourceDate:     c.SourceDate,
		CitedText:      c.CitedText,
		StartChar:      c.StartChar,
		EndChar:        c.EndChar,
	}
}

func (m *CitationMapper) ToEntities(citations []model.Citation) []*entity.Citation {
	entities := make([]*entity.Citation, len(citations))
	for i := range citations {
		entities[i] = m.ToEntity(&citations[i])
	}
	return entities
}

func (m *CitationMapper) ToModels(citations []*entity.Citation) []*model.Citation {
	models := make([]*model.Citation, len(citations))
	for i, c := range citations {
		models[i] = m.ToModel(c)
	}
	return models
}
