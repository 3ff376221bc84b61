package service

import (
	"context"
	"errors"
	"time"

	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/repository/specification"
	"notebooklm-be/internal/repository/unitofwork"
	"notebooklm-be/pkg/notebooklm"
)

const defaultSourceType = "unknown"

type INotebookService interface {
	List(ctx context.Context) ([]*dto.NotebookResponse, error)
	Sync(ctx context.Context) (*dto.NotebookSyncResponse, error)
}

type notebookService struct {
	uowFactory unitofwork.RepositoryFactory
	handle     *notebooklm.SessionHandle
	logger     logger.ILogger
}

func NewNotebookService(uowFactory unitofwork.RepositoryFactory, handle *notebooklm.SessionHandle, logger logger.ILogger) INotebookService {
	return &notebookService{
		uowFactory: uowFactory,
		handle:     handle,
		logger:     logger,
	}
}

func (s *notebookService) List(ctx context.Context) ([]*dto.NotebookResponse, error) {
	notebooks, err := s.uowFactory.NewUnitOfWork(ctx).NotebookRepository().FindAll(ctx,
		specification.OrderBy{Field: "title"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotebookResponse, len(notebooks))
	for i, nb := range notebooks {
		res[i] = toNotebookResponse(nb)
	}
	return res, nil
}

// Sync mirrors every notebook the engine lists, with its sources, into the
// database. A notebook whose sources cannot be listed is skipped and reported
// in Failed; the others are still written.
func (s *notebookService) Sync(ctx context.Context) (*dto.NotebookSyncResponse, error) {
	engine := s.handle.Load()
	if engine == nil {
		return nil, notebooklm.ErrEngineUnavailable
	}

	summaries, err := engine.ListNotebooks(ctx)
	if err != nil {
		if errors.Is(err, notebooklm.ErrEngineUnavailable) {
			return nil, err
		}
		return nil, serverutils.NewServiceUnavailableError("Notebook sync failed: " + err.Error())
	}

	now := time.Now().UTC()
	res := &dto.NotebookSyncResponse{
		Notebooks: make([]*dto.NotebookResponse, 0, len(summaries)),
		Failed:    []string{},
		SyncedAt:  now,
	}

	for _, summary := range summaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		listed, err := engine.ListSources(ctx, summary.Id)
		if err != nil {
			s.logger.Warn("notebook-sync", "Listing sources failed", map[string]interface{}{
				"notebook_id": summary.Id,
				"error":       err.Error(),
			})
			res.Failed = append(res.Failed, summary.Id)
			continue
		}

		notebook := &entity.Notebook{
			Id:           summary.Id,
			Title:        summary.Title,
			LastSyncedAt: &now,
			SourceCount:  len(listed),
			IsActive:     true,
		}
		if notebook.Title == "" {
			notebook.Title = summary.Id
		}

		sources := make([]*entity.Source, len(listed))
		for i, src := range listed {
			sources[i] = toSourceEntity(summary.Id, src)
		}

		if err := s.persist(ctx, notebook, sources); err != nil {
			return nil, err
		}
		res.Notebooks = append(res.Notebooks, toNotebookResponse(notebook))
		res.Sources += len(sources)
	}

	s.logger.Info("notebook-sync", "Notebooks synced", map[string]interface{}{
		"notebooks": len(res.Notebooks),
		"sources":   res.Sources,
		"failed":    len(res.Failed),
	})
	return res, nil
}

func (s *notebookService) persist(ctx context.Context, notebook *entity.Notebook, sources []*entity.Source) (err error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	if err = uow.NotebookRepository().Upsert(ctx, notebook); err != nil {
		return err
	}
	if err = uow.SourceRepository().UpsertBulk(ctx, sources); err != nil {
		return err
	}

	return uow.Commit()
}

func toSourceEntity(notebookId string, src notebooklm.SourceSummary) *entity.Source {
	source := &entity.Source{
		Id:         src.Id,
		NotebookId: notebookId,
		Title:      src.Title,
		SourceType: src.Type,
		Status:     "ready",
	}
	if source.Title == "" {
		source.Title = src.Id
	}
	if source.SourceType == "" {
		source.SourceType = defaultSourceType
	}
	return source
}

func toNotebookResponse(nb *entity.Notebook) *dto.NotebookResponse {
	return &dto.NotebookResponse{
		Id:           nb.Id,
		Title:        nb.Title,
		CreatedAt:    nb.CreatedAt,
		LastSyncedAt: nb.LastSyncedAt,
		SourceCount:  nb.SourceCount,
		IsActive:     nb.IsActive,
	}
}
