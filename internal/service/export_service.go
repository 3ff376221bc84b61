package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/repository/specification"
	"notebooklm-be/internal/repository/unitofwork"
	"notebooklm-be/pkg/citation"
)

const ExportModel = "notebooklm"

// IExportCache is satisfied by cache.ExportCache.
type IExportCache interface {
	Get(ctx context.Context, notebookId string, queryId uint) ([]byte, bool, error)
	Set(ctx context.Context, notebookId string, queryId uint, data []byte) error
}

type IExportService interface {
	Export(ctx context.Context, notebookId string, queryId uint) (*dto.ExportResponse, error)
}

type exportService struct {
	uowFactory      unitofwork.RepositoryFactory
	cache           IExportCache
	notebookBaseURL string
	logger          logger.ILogger
}

// NewExportService builds the export renderer. cache may be nil.
func NewExportService(uowFactory unitofwork.RepositoryFactory, cache IExportCache, notebookBaseURL string, logger logger.ILogger) IExportService {
	return &exportService{
		uowFactory:      uowFactory,
		cache:           cache,
		notebookBaseURL: notebookBaseURL,
		logger:          logger,
	}
}

func (s *exportService) Export(ctx context.Context, notebookId string, queryId uint) (*dto.ExportResponse, error) {
	if cached := s.fromCache(ctx, notebookId, queryId); cached != nil {
		return cached, nil
	}

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

	res := s.render(query)

	if query.Status == entity.QueryStatusCompleted {
		s.toCache(ctx, notebookId, queryId, res)
	}
	return res, nil
}

func (s *exportService) render(query *entity.Query) *dto.ExportResponse {
	answer := ""
	if query.Answer != nil {
		answer = *query.Answer
	}

	export := citation.BuildExport(answer, toReferences(query.Citations))

	notebookUrl := ""
	if s.notebookBaseURL != "" {
		notebookUrl = strings.TrimRight(s.notebookBaseURL, "/") + "/" + query.NotebookId
	}

	return &dto.ExportResponse{
		Timestamp:       query.AskedAt.Format(time.RFC3339),
		NotebookUrl:     notebookUrl,
		Question:        query.Question,
		ResponseText:    answer,
		CleanHtml:       export.HTML,
		Footnotes:       export.Footnotes,
		NotebookSources: export.Sources,
		Model:           ExportModel,
	}
}

func toReferences(citations []*entity.Citation) []citation.Reference {
	refs := make([]citation.Reference, 0, len(citations))
	for _, c := range citations {
		refs = append(refs, citation.Reference{
			Number:        c.CitationNumber,
			SourceTitle:   deref(c.SourceTitle),
			SourceAuthors: deref(c.SourceAuthors),
			SourceDate:    deref(c.SourceDate),
			CitedText:     deref(c.CitedText),
		})
	}
	return refs
}

func (s *exportService) fromCache(ctx context.Context, notebookId string, queryId uint) *dto.ExportResponse {
	if s.cache == nil {
		return nil
	}
	data, found, err := s.cache.Get(ctx, notebookId, queryId)
	if err != nil {
		s.logger.Warn("export", "Export cache read failed", map[string]interface{}{
			"query_id": queryId,
			"error":    err.Error(),
		})
		return nil
	}
	if !found {
		return nil
	}
	var res dto.ExportResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil
	}
	return &res
}

func (s *exportService) toCache(ctx context.Context, notebookId string, queryId uint, res *dto.ExportResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, notebookId, queryId, data); err != nil {
		s.logger.Warn("export", "Export cache write failed", map[string]interface{}{
			"query_id": queryId,
			"error":    err.Error(),
		})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
