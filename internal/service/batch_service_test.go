package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBatchTopic = "test.batch"

type pipelineCall struct {
	question       string
	conversationId *string
}

// scriptedPipeline answers every question except those listed in failOn,
// handing out a fresh conversation id per answer.
type scriptedPipeline struct {
	mu     sync.Mutex
	store  *fakeStore
	calls  []pipelineCall
	failOn map[string]bool
}

func (p *scriptedPipeline) Ask(ctx context.Context, notebookId, question string, conversationId *string) (*entity.Query, error) {
	return nil, errors.New("not used")
}

func (p *scriptedPipeline) Run(ctx context.Context, query *entity.Query, conversationId *string) (*entity.Query, error) {
	p.mu.Lock()
	p.calls = append(p.calls, pipelineCall{question: query.Question, conversationId: conversationId})
	n := len(p.calls)
	p.mu.Unlock()

	repo := &fakeQueryRepo{store: p.store}
	if p.failOn[query.Question] {
		query.Status = entity.QueryStatusFailed
		_ = repo.Update(ctx, query)
		return query, errors.New("engine said no")
	}

	conv := fmt.Sprintf("conv-%d", n)
	query.Status = entity.QueryStatusCompleted
	query.ConversationId = &conv
	_ = repo.Update(ctx, query)
	return query, nil
}

func (p *scriptedPipeline) snapshot() []pipelineCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pipelineCall(nil), p.calls...)
}

type batchFixture struct {
	store    *fakeStore
	pipeline *scriptedPipeline
	pubSub   *gochannel.GoChannel
	events   *recordingPublisher
	service  IBatchService
}

func newBatchFixture(t *testing.T) *batchFixture {
	store := newFakeStore()
	store.addNotebook("nb-1")

	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	pipeline := &scriptedPipeline{store: store, failOn: map[string]bool{}}
	publisher := &recordingPublisher{}

	return &batchFixture{
		store:    store,
		pipeline: pipeline,
		pubSub:   pubSub,
		events:   publisher,
		service: NewBatchService(&fakeFactory{store: store}, pipeline, pubSub, pubSub, publisher, BatchOptions{
			Topic:        testBatchTopic,
			DefaultDelay: 0,
			MaxDelay:     50 * time.Millisecond,
		}, testLogger),
	}
}

func TestBatchService_SubmitCreatesPendingRows(t *testing.T) {
	f := newBatchFixture(t)
	delay := 10.0

	res, err := f.service.Submit(context.Background(), "nb-1", &dto.BatchQueryRequest{
		Questions:    []string{"first?", "second?", "third?"},
		DelaySeconds: &delay,
	})
	require.NoError(t, err)

	assert.Len(t, res.BatchId, 8)
	assert.Equal(t, 3, res.TotalQuestions)
	require.Len(t, res.Queries, 3)

	for i, item := range res.Queries {
		stored := f.store.query(item.Id)
		assert.Equal(t, entity.QueryStatusPending, stored.Status)
		require.NotNil(t, stored.BatchId)
		assert.Equal(t, res.BatchId, *stored.BatchId)
		require.NotNil(t, stored.TurnNumber)
		assert.Equal(t, i+1, *stored.TurnNumber)
	}

	messages, err := f.pubSub.Subscribe(context.Background(), testBatchTopic)
	require.NoError(t, err)

	select {
	case msg := <-messages:
		var payload dto.PublishBatchMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		msg.Ack()
		assert.Equal(t, res.BatchId, payload.BatchId)
		assert.Equal(t, "nb-1", payload.NotebookId)
		// 10s is clamped to the configured maximum.
		assert.Equal(t, int64(50), payload.DelayMs)
	case <-time.After(2 * time.Second):
		t.Fatal("batch message was not published")
	}
}

func TestBatchService_SubmitUnknownNotebook(t *testing.T) {
	f := newBatchFixture(t)

	_, err := f.service.Submit(context.Background(), "missing", &dto.BatchQueryRequest{Questions: []string{"q"}})
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
	assert.Empty(t, f.store.queries)
}

func TestBatchService_ConsumeRunsInOrderAndThreadsConversation(t *testing.T) {
	f := newBatchFixture(t)
	f.pipeline.failOn["second?"] = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.service.Consume(ctx) }()

	res, err := f.service.Submit(context.Background(), "nb-1", &dto.BatchQueryRequest{
		Questions: []string{"first?", "second?", "third?"},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(f.events.types()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}

	calls := f.pipeline.snapshot()
	require.Len(t, calls, 3)
	assert.Equal(t, "first?", calls[0].question)
	assert.Nil(t, calls[0].conversationId)
	assert.Equal(t, "second?", calls[1].question)
	assert.Equal(t, "conv-1", *calls[1].conversationId)
	// A failed question leaves the conversation where it was.
	assert.Equal(t, "third?", calls[2].question)
	assert.Equal(t, "conv-1", *calls[2].conversationId)

	assert.Equal(t, []string{events.BatchCompleted}, f.events.types())
	payload := f.events.events[0].Payload()
	assert.Equal(t, res.BatchId, payload["batch_id"])
	assert.Equal(t, 2, payload["completed"])
	assert.Equal(t, 1, payload["failed"])

	status, err := f.service.Status(context.Background(), res.BatchId)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Total)
	assert.Equal(t, 2, status.Completed)
	assert.Equal(t, 1, status.Failed)
	assert.Equal(t, 0, status.Pending)
}

func TestBatchService_StatusUnknownBatch(t *testing.T) {
	f := newBatchFixture(t)

	_, err := f.service.Status(context.Background(), "nope")
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestWaitFor(t *testing.T) {
	assert.NoError(t, waitFor(context.Background(), 0))
	assert.NoError(t, waitFor(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, waitFor(ctx, time.Hour), context.Canceled)
}
