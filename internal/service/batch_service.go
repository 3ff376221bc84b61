package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/repository/specification"
	"notebooklm-be/internal/repository/unitofwork"
	"notebooklm-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IBatchService interface {
	Submit(ctx context.Context, notebookId string, req *dto.BatchQueryRequest) (*dto.BatchQueryResponse, error)
	Status(ctx context.Context, batchId string) (*dto.BatchStatusResponse, error)
	// Consume processes submitted batches one at a time until ctx is done.
	Consume(ctx context.Context) error
}

type BatchOptions struct {
	Topic        string
	DefaultDelay time.Duration
	MaxDelay     time.Duration
}

type batchService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   IQueryPipeline
	publisher  message.Publisher
	subscriber message.Subscriber
	events     IEventPublisher
	opts       BatchOptions
	logger     logger.ILogger
}

func NewBatchService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline IQueryPipeline,
	publisher message.Publisher,
	subscriber message.Subscriber,
	eventPublisher IEventPublisher,
	opts BatchOptions,
	logger logger.ILogger,
) IBatchService {
	return &batchService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		publisher:  publisher,
		subscriber: subscriber,
		events:     eventPublisher,
		opts:       opts,
		logger:     logger,
	}
}

func newBatchId() string {
	return uuid.New().String()[:8]
}

func (s *batchService) Submit(ctx context.Context, notebookId string, req *dto.BatchQueryRequest) (*dto.BatchQueryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := ensureNotebook(ctx, uow, notebookId); err != nil {
		return nil, err
	}

	delay := s.opts.DefaultDelay
	if req.DelaySeconds != nil {
		delay = time.Duration(*req.DelaySeconds * float64(time.Second))
	}
	if s.opts.MaxDelay > 0 && delay > s.opts.MaxDelay {
		delay = s.opts.MaxDelay
	}

	batchId := newBatchId()
	now := time.Now().UTC()
	queries := make([]*entity.Query, len(req.Questions))
	for i, question := range req.Questions {
		turn := i + 1
		queries[i] = &entity.Query{
			NotebookId: notebookId,
			Question:   question,
			BatchId:    &batchId,
			TurnNumber: &turn,
			Status:     entity.QueryStatusPending,
			AskedAt:    now,
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.QueryRepository().CreateBulk(ctx, queries); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishBatchMessage{
		BatchId:    batchId,
		NotebookId: notebookId,
		DelayMs:    delay.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(s.opts.Topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		return nil, fmt.Errorf("dispatch batch %s: %w", batchId, err)
	}

	s.logger.Info("batch", "Batch submitted", map[string]interface{}{
		"batch_id":    batchId,
		"notebook_id": notebookId,
		"questions":   len(queries),
		"delay":       delay.String(),
	})

	items := make([]*dto.QueryListItem, 0, len(queries))
	for _, q := range queries {
		items = append(items, &dto.QueryListItem{
			Id:       q.Id,
			Question: q.Question,
			Status:   string(q.Status),
			AskedAt:  q.AskedAt,
		})
	}

	return &dto.BatchQueryResponse{
		BatchId:        batchId,
		NotebookId:     notebookId,
		TotalQuestions: len(queries),
		Queries:        items,
	}, nil
}

func (s *batchService) Status(ctx context.Context, batchId string) (*dto.BatchStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	queries, err := uow.QueryRepository().FindAll(ctx,
		specification.ByBatchID{BatchID: batchId},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, serverutils.NewNotFoundError("Batch not found")
	}

	items, err := listItems(ctx, uow, queries)
	if err != nil {
		return nil, err
	}

	res := &dto.BatchStatusResponse{
		BatchId: batchId,
		Total:   len(queries),
		Queries: items,
	}
	for _, q := range queries {
		switch q.Status {
		case entity.QueryStatusCompleted:
			res.Completed++
		case entity.QueryStatusFailed:
			res.Failed++
		default:
			res.Pending++
		}
	}
	return res, nil
}

func (s *batchService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.opts.Topic)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			s.processMessage(ctx, msg)
		}
	}
}

func (s *batchService) processMessage(ctx context.Context, msg *message.Message) {
	// Batches are never redelivered; a failed question is recorded on its own row.
	defer msg.Ack()

	var payload dto.PublishBatchMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("batch", "Invalid batch message", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.runBatch(ctx, payload)
}

// runBatch answers the batch's pending questions in submission order, feeding
// each answer's conversation id into the next question.
func (s *batchService) runBatch(ctx context.Context, payload dto.PublishBatchMessage) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	queries, err := uow.QueryRepository().FindAll(ctx,
		specification.ByBatchID{BatchID: payload.BatchId},
		specification.ByStatus{Status: string(entity.QueryStatusPending)},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		s.logger.Error("batch", "Failed to load batch", map[string]interface{}{
			"batch_id": payload.BatchId,
			"error":    err.Error(),
		})
		return
	}

	delay := time.Duration(payload.DelayMs) * time.Millisecond
	s.logger.Info("batch", "Starting batch", map[string]interface{}{
		"batch_id":  payload.BatchId,
		"questions": len(queries),
	})

	var conversationId *string
	completed, failed := 0, 0
	for i, query := range queries {
		if i > 0 {
			if err := waitFor(ctx, delay); err != nil {
				s.logger.Warn("batch", "Batch interrupted", map[string]interface{}{
					"batch_id":  payload.BatchId,
					"remaining": len(queries) - i,
				})
				return
			}
		}

		s.logger.Info("batch", "Processing question", map[string]interface{}{
			"batch_id": payload.BatchId,
			"position": fmt.Sprintf("%d/%d", i+1, len(queries)),
		})

		result, err := s.pipeline.Run(ctx, query, conversationId)
		if err != nil {
			failed++
			continue
		}
		completed++
		if result.ConversationId != nil {
			conversationId = result.ConversationId
		}
	}

	s.logger.Info("batch", "Batch complete", map[string]interface{}{
		"batch_id":  payload.BatchId,
		"completed": completed,
		"failed":    failed,
	})
	publishEvent(ctx, s.events, s.logger, events.NewBatchCompleted(payload.NotebookId, payload.BatchId, completed, failed))
}

func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
