package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/specification"
	"notebooklm-be/internal/repository/unitofwork"
	"notebooklm-be/pkg/events"
	"notebooklm-be/pkg/notebooklm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// IQueryPipeline takes a question from a pending row to a terminal one.
type IQueryPipeline interface {
	// Ask records a new pending query and runs it.
	Ask(ctx context.Context, notebookId, question string, conversationId *string) (*entity.Query, error)
	// Run executes an already persisted pending query. On failure the row is
	// left failed and the engine error is returned alongside it.
	Run(ctx context.Context, query *entity.Query, conversationId *string) (*entity.Query, error)
}

type queryPipeline struct {
	uowFactory unitofwork.RepositoryFactory
	handle     *notebooklm.SessionHandle
	refresher  notebooklm.SessionRefresher
	executor   *notebooklm.Executor
	enricher   ICitationEnricher
	publisher  IEventPublisher
	logger     logger.ILogger
	tracer     trace.Tracer
}

func NewQueryPipeline(
	uowFactory unitofwork.RepositoryFactory,
	handle *notebooklm.SessionHandle,
	refresher notebooklm.SessionRefresher,
	executor *notebooklm.Executor,
	enricher ICitationEnricher,
	publisher IEventPublisher,
	logger logger.ILogger,
) IQueryPipeline {
	return &queryPipeline{
		uowFactory: uowFactory,
		handle:     handle,
		refresher:  refresher,
		executor:   executor,
		enricher:   enricher,
		publisher:  publisher,
		logger:     logger,
		tracer:     otel.Tracer("notebooklm-be/internal/service"),
	}
}

func (p *queryPipeline) Ask(ctx context.Context, notebookId, question string, conversationId *string) (*entity.Query, error) {
	query := &entity.Query{
		NotebookId:     notebookId,
		Question:       question,
		ConversationId: conversationId,
		Status:         entity.QueryStatusPending,
		AskedAt:        time.Now().UTC(),
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	if err := uow.QueryRepository().Create(ctx, query); err != nil {
		return nil, fmt.Errorf("create pending query: %w", err)
	}

	return p.Run(ctx, query, conversationId)
}

func (p *queryPipeline) Run(ctx context.Context, query *entity.Query, conversationId *string) (*entity.Query, error) {
	ctx, span := p.tracer.Start(ctx, "QueryPipeline.Run", trace.WithAttributes(
		attribute.String("notebook.id", query.NotebookId),
		attribute.Int("query.id", int(query.Id)),
	))
	defer span.End()

	p.logger.Info("query", "Asking question", map[string]interface{}{
		"query_id":    query.Id,
		"notebook_id": query.NotebookId,
		"question":    truncate(query.Question, 100),
	})

	engine := p.currentEngine(ctx)
	if engine == nil {
		return p.fail(ctx, span, query, notebooklm.ErrEngineUnavailable)
	}

	result, attempts, err := p.executor.Execute(ctx, engine, query.NotebookId, query.Question, conversationId)
	if err != nil {
		return p.fail(ctx, span, query, err)
	}
	span.SetAttributes(attribute.Int("query.attempts", attempts))

	citations := buildCitations(result.References)
	p.resolveSources(ctx, citations)

	// A retry may have swapped the session; enrich with the newest engine.
	enrichWith := p.handle.Load()
	if enrichWith == nil {
		enrichWith = engine
	}
	p.enricher.Enrich(ctx, enrichWith, query.NotebookId, citations)

	answeredAt := time.Now().UTC()
	answer := result.Answer
	turnNumber := result.TurnNumber
	query.Answer = &answer
	query.TurnNumber = &turnNumber
	if result.ConversationId != "" {
		conv := result.ConversationId
		query.ConversationId = &conv
	}
	query.Status = entity.QueryStatusCompleted
	query.AnsweredAt = &answeredAt
	query.Metadata = mergeMetadata(query.Metadata, map[string]interface{}{
		"citation_count": len(citations),
		"answer_length":  len(answer),
		"is_follow_up":   result.IsFollowUp,
		"attempts":       attempts,
	})

	if err := p.persistCompleted(ctx, query, citations); err != nil {
		// The transaction rolled back; undo the in-memory completion too.
		query.Answer = nil
		query.AnsweredAt = nil
		return p.fail(ctx, span, query, fmt.Errorf("persist answer: %w", err))
	}
	query.Citations = citations

	p.logger.Info("query", "Query completed", map[string]interface{}{
		"query_id":       query.Id,
		"notebook_id":    query.NotebookId,
		"citation_count": len(citations),
		"attempts":       attempts,
	})
	span.SetAttributes(attribute.Int("query.citations", len(citations)))
	publishEvent(ctx, p.publisher, p.logger, events.NewQueryCompleted(query.NotebookId, query.Id, len(citations), query.BatchId))

	return query, nil
}

// currentEngine returns the live engine, trying one refresh when no session
// has been established yet.
func (p *queryPipeline) currentEngine(ctx context.Context) notebooklm.Engine {
	if engine := p.handle.Load(); engine != nil {
		return engine
	}
	if p.refresher == nil {
		return nil
	}
	if err := p.refresher.Refresh(ctx); err != nil {
		p.logger.Warn("query", "No engine session and refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return p.handle.Load()
}

func buildCitations(refs []notebooklm.ChatReference) []*entity.Citation {
	citations := make([]*entity.Citation, 0, len(refs))
	for _, ref := range refs {
		citations = append(citations, &entity.Citation{
			CitationNumber: ref.CitationNumber,
			SourceId:       ref.SourceId,
			CitedText:      ref.CitedText,
			StartChar:      ref.StartChar,
			EndChar:        ref.EndChar,
		})
	}
	return citations
}

// resolveSources copies bibliographic fields from locally known sources.
func (p *queryPipeline) resolveSources(ctx context.Context, citations []*entity.Citation) {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, c := range citations {
		if c.SourceId == nil || *c.SourceId == "" {
			continue
		}
		if _, ok := seen[*c.SourceId]; ok {
			continue
		}
		seen[*c.SourceId] = struct{}{}
		ids = append(ids, *c.SourceId)
	}
	if len(ids) == 0 {
		return
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	sources, err := uow.SourceRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		p.logger.Warn("query", "Source lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	byId := make(map[string]*entity.Source, len(sources))
	for _, s := range sources {
		byId[s.Id] = s
	}

	for _, c := range citations {
		if c.SourceId == nil {
			continue
		}
		src, ok := byId[*c.SourceId]
		if !ok {
			continue
		}
		title := src.Title
		c.SourceTitle = &title
		c.SourceAuthors = src.Authors
		c.SourceDate = src.PublicationDate
	}
}

func (p *queryPipeline) persistCompleted(ctx context.Context, query *entity.Query, citations []*entity.Citation) (err error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	if err = uow.QueryRepository().Update(ctx, query); err != nil {
		return err
	}
	for _, c := range citations {
		c.QueryId = query.Id
	}
	if err = uow.CitationRepository().CreateBulk(ctx, citations); err != nil {
		return err
	}

	return uow.Commit()
}

// fail marks the row failed and hands back cause.
func (p *queryPipeline) fail(ctx context.Context, span trace.Span, query *entity.Query, cause error) (*entity.Query, error) {
	span.RecordError(cause)
	span.SetStatus(codes.Error, cause.Error())

	errType := ErrorType(cause)
	query.Status = entity.QueryStatusFailed
	query.Metadata = mergeMetadata(query.Metadata, map[string]interface{}{
		"error":      cause.Error(),
		"error_type": errType,
	})

	// The row must reach a terminal state even when the request was cancelled.
	writeCtx := context.WithoutCancel(ctx)
	uow := p.uowFactory.NewUnitOfWork(writeCtx)
	if err := uow.QueryRepository().Update(writeCtx, query); err != nil {
		p.logger.Error("query", "Failed to record query failure", map[string]interface{}{
			"query_id": query.Id,
			"error":    err.Error(),
		})
	}

	p.logger.Error("query", "Query failed", map[string]interface{}{
		"query_id":    query.Id,
		"notebook_id": query.NotebookId,
		"error_type":  errType,
		"error":       cause.Error(),
	})
	publishEvent(ctx, p.publisher, p.logger, events.NewQueryFailed(query.NotebookId, query.Id, errType, cause.Error(), query.BatchId))

	return query, cause
}

// ErrorType names the failure class stored in a failed query's metadata.
func ErrorType(err error) string {
	var refreshErr *notebooklm.RefreshFailedError
	var exhaustedErr *notebooklm.ExhaustedRetriesError
	var apiErr *notebooklm.APIError

	switch {
	case errors.As(err, &refreshErr):
		return "RefreshFailed"
	case errors.As(err, &exhaustedErr):
		return "ExhaustedRetries"
	case errors.Is(err, notebooklm.ErrEngineUnavailable):
		return "EngineUnavailable"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timeout"
	case errors.As(err, &apiErr):
		return "APIError"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	}
}

func mergeMetadata(existing, extra map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(existing)+len(extra))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
