package mapper

import (
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/model"

	"gorm.io/datatypes"
)

type QueryMapper struct {
	citations *CitationMapper
}

func NewQueryMapper() *QueryMapper {
	return &QueryMapper{citations: NewCitationMapper()}
}

// ToEntity maps a query row. Citations are mapped only when preloaded.
func (m *QueryMapper) ToEntity(q *model.Query) *entity.Query {
	if q == nil {
		return nil
	}

	var metadata map[string]interface{}
	if q.Metadata != nil {
		metadata = map[string]interface{}(q.Metadata)
	}

	return &entity.Query{
		Id:             q.Id,
		NotebookId:     q.NotebookId,
		Question:       q.Question,
		Answer:         q.Answer,
		ConversationId: q.ConversationId,
		TurnNumber:     q.TurnNumber,
		BatchId:        q.BatchId,
		Status:         entity.QueryStatus(q.Status),
		AskedAt:        q.AskedAt,
		AnsweredAt:     q.AnsweredAt,
		Metadata:       metadata,
		Citations:      m.citations.ToEntities(q.Citations),
	}
}

// ToModel maps the query row only; citations are persisted separately.
func (m *QueryMapper) ToModel(q *entity.Query) *model.Query {
	if q == nil {
		return nil
	}

	var metadata datatypes.JSONMap
	if q.Metadata != nil {
		metadata = datatypes.JSONMap(q.Metadata)
	}

	return &model.Query{
		Id:             q.Id,
		NotebookId:     q.NotebookId,
		Question:       q.Question,
		Answer:         q.Answer,
		ConversationId: q.ConversationId,
		TurnNumber:     q.TurnNumber,
		BatchId:        q.BatchId,
		Status:         string(q.Status),
		AskedAt:        q.AskedAt,
		AnsweredAt:     q.AnsweredAt,
		Metadata:       metadata,
	}
}

func (m *QueryMapper) ToEntities(queries []*model.Query) []*entity.Query {
	entities := make([]*entity.Query, len(queries))
	for i, q := range queries {
		entities[i] = m.ToEntity(q)
	}
	return entities
}
