package service

import (
	"context"

	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/repository/specification"
	"notebooklm-be/internal/repository/unitofwork"
)

const (
	DefaultQueryListLimit = 20
	MaxQueryListLimit     = 100
)

type IQueryService interface {
	Ask(ctx context.Context, notebookId string, req *dto.AskQueryRequest) (*dto.QueryResponse, error)
	List(ctx context.Context, notebookId string, limit, offset int) (*dto.QueryListResponse, error)
	Show(ctx context.Context, notebookId string, queryId uint) (*dto.QueryResponse, error)
}

type queryService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   IQueryPipeline
}

func NewQueryService(uowFactory unitofwork.RepositoryFactory, pipeline IQueryPipeline) IQueryService {
	return &queryService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
	}
}

func (s *queryService) Ask(ctx context.Context, notebookId string, req *dto.AskQueryRequest) (*dto.QueryResponse, error) {
	if err := ensureNotebook(ctx, s.uowFactory.NewUnitOfWork(ctx), notebookId); err != nil {
		return nil, err
	}

	query, err := s.pipeline.Ask(ctx, notebookId, req.Question, req.ConversationId)
	if err != nil {
		return nil, err
	}
	return toQueryResponse(query), nil
}

func (s *queryService) List(ctx context.Context, notebookId string, limit, offset int) (*dto.QueryListResponse, error) {
	if limit <= 0 {
		limit = DefaultQueryListLimit
	}
	if limit > MaxQueryListLimit {
		limit = MaxQueryListLimit
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := ensureNotebook(ctx, uow, notebookId); err != nil {
		return nil, err
	}

	total, err := uow.QueryRepository().Count(ctx, specification.ByNotebookID{NotebookID: notebookId})
	if err != nil {
		return nil, err
	}

	queries, err := uow.QueryRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.OrderBy{Field: "asked_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	items, err := listItems(ctx, uow, queries)
	if err != nil {
		return nil, err
	}

	return &dto.QueryListResponse{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Queries: items,
	}, nil
}

func (s *queryService) Show(ctx context.Context, notebookId string, queryId uint) (*dto.QueryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	query, err := uow.QueryRepository().FindOne(ctx,
		specification.ByID{ID: queryId},
		specification.WithCitations{},
	)
	if err != nil {
		return nil, err
	}
	if query == nil || query.NotebookId != notebookId {
		return nil, serverutils.NewNotFoundError("Query not found")
	}
	return toQueryResponse(query), nil
}

func ensureNotebook(ctx context.Context, uow unitofwork.UnitOfWork, notebookId string) error {
	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: notebookId})
	if err != nil {
		return err
	}
	if notebook == nil {
		return serverutils.NewNotFoundError("Notebook not found")
	}
	return nil
}

func listItems(ctx context.Context, uow unitofwork.UnitOfWork, queries []*entity.Query) ([]*dto.QueryListItem, error) {
	ids := make([]uint, len(queries))
	for i, q := range queries {
		ids[i] = q.Id
	}
	counts, err := uow.CitationRepository().CountByQueryIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.QueryListItem, 0, len(queries))
	for _, q := range queries {
		items = append(items, &dto.QueryListItem{
			Id:            q.Id,
			Question:      q.Question,
			Status:        string(q.Status),
			AskedAt:       q.AskedAt,
			AnsweredAt:    q.AnsweredAt,
			CitationCount: counts[q.Id],
		})
	}
	return items, nil
}

func toQueryResponse(q *entity.Query) *dto.QueryResponse {
	citations := make([]*dto.CitationResponse, 0, len(q.Citations))
	for _, c := range q.Citations {
		citations = append(citations, &dto.CitationResponse{
			Id:             c.Id,
			CitationNumber: c.CitationNumber,
			SourceId:       c.SourceId,
			SourceTitle:    c.SourceTitle,
			SourceAuthors:  c.SourceAuthors,
			SourceDate:     c.SourceDate,
			CitedText:      c.CitedText,
			StartChar:      c.StartChar,
			EndChar:        c.EndChar,
		})
	}

	return &dto.QueryResponse{
		Id:             q.Id,
		NotebookId:     q.NotebookId,
		Question:       q.Question,
		Answer:         q.Answer,
		Status:         string(q.Status),
		ConversationId: q.ConversationId,
		TurnNumber:     q.TurnNumber,
		BatchId:        q.BatchId,
		AskedAt:        q.AskedAt,
		AnsweredAt:     q.AnsweredAt,
		Metadata:       q.Metadata,
		Citations:      citations,
	}
}
