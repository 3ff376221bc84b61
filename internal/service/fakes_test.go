package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/contract"
	"notebooklm-be/internal/repository/specification"
	"notebooklm-be/internal/repository/unitofwork"
	"notebooklm-be/pkg/events"
	"notebooklm-be/pkg/notebooklm"
)

var testLogger = logger.NewNopLogger()

// --- store ---

type fakeStore struct {
	mu        sync.Mutex
	notebooks map[string]*entity.Notebook
	sources   map[string]*entity.Source
	queries   map[uint]*entity.Query
	citations []*entity.Citation
	nextId    uint

	citationErr error
	begins      int
	commits     int
	rollbacks   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		notebooks: map[string]*entity.Notebook{},
		sources:   map[string]*entity.Source{},
		queries:   map[uint]*entity.Query{},
	}
}

func (s *fakeStore) addNotebook(id string) {
	s.notebooks[id] = &entity.Notebook{Id: id, Title: "Notebook " + id, IsActive: true}
}

func (s *fakeStore) query(id uint) *entity.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := *s.queries[id]
	return &q
}

func (s *fakeStore) citationsFor(queryId uint) []*entity.Citation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Citation, 0)
	for _, c := range s.citations {
		if c.QueryId == queryId {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{store: f.store}
}

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Begin(ctx context.Context) error {
	u.store.mu.Lock()
	u.store.begins++
	u.store.mu.Unlock()
	return nil
}

func (u *fakeUoW) Commit() error {
	u.store.mu.Lock()
	u.store.commits++
	u.store.mu.Unlock()
	return nil
}

func (u *fakeUoW) Rollback() error {
	u.store.mu.Lock()
	u.store.rollbacks++
	u.store.mu.Unlock()
	return nil
}

func (u *fakeUoW) NotebookRepository() contract.NotebookRepository {
	return &fakeNotebookRepo{store: u.store}
}

func (u *fakeUoW) SourceRepository() contract.SourceRepository {
	return &fakeSourceRepo{store: u.store}
}

func (u *fakeUoW) QueryRepository() contract.QueryRepository {
	return &fakeQueryRepo{store: u.store}
}

func (u *fakeUoW) CitationRepository() contract.CitationRepository {
	return &fakeCitationRepo{store: u.store}
}

// --- repositories ---

type fakeNotebookRepo struct{ store *fakeStore }

func (r *fakeNotebookRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if nb, found := r.store.notebooks[byId.ID.(string)]; found {
				copied := *nb
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeNotebookRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Notebook, 0, len(r.store.notebooks))
	for _, nb := range r.store.notebooks {
		copied := *nb
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakeNotebookRepo) Upsert(ctx context.Context, notebook *entity.Notebook) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *notebook
	if existing, ok := r.store.notebooks[notebook.Id]; ok {
		copied.CreatedAt = existing.CreatedAt
	}
	r.store.notebooks[notebook.Id] = &copied
	return nil
}

func (r *fakeNotebookRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.notebooks)), nil
}

type fakeSourceRepo struct{ store *fakeStore }

func (r *fakeSourceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Source, 0)
	for _, spec := range specs {
		if byIds, ok := spec.(specification.ByIDs); ok {
			for _, id := range byIds.IDs {
				if src, found := r.store.sources[id]; found {
					copied := *src
					out = append(out, &copied)
				}
			}
		}
	}
	return out, nil
}

func (r *fakeSourceRepo) UpsertBulk(ctx context.Context, sources []*entity.Source) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, src := range sources {
		if existing, ok := r.store.sources[src.Id]; ok {
			existing.Title = src.Title
			existing.SourceType = src.SourceType
			continue
		}
		copied := *src
		r.store.sources[src.Id] = &copied
	}
	return nil
}

type fakeQueryRepo struct{ store *fakeStore }

func (r *fakeQueryRepo) Create(ctx context.Context, query *entity.Query) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextId++
	query.Id = r.store.nextId
	copied := *query
	r.store.queries[query.Id] = &copied
	return nil
}

func (r *fakeQueryRepo) CreateBulk(ctx context.Context, queries []*entity.Query) error {
	for _, q := range queries {
		if err := r.Create(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeQueryRepo) Update(ctx context.Context, query *entity.Query) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.queries[query.Id]; !ok {
		return errors.New("record not found")
	}
	copied := *query
	copied.Citations = nil
	r.store.queries[query.Id] = &copied
	return nil
}

func (r *fakeQueryRepo) matching(specs []specification.Specification) ([]*entity.Query, bool, bool, specification.Pagination) {
	var (
		out          []*entity.Query
		newestFirst  bool
		withCitation bool
		page         specification.Pagination
	)
	for _, q := range r.store.queries {
		if matchesQuery(q, specs) {
			copied := *q
			out = append(out, &copied)
		}
	}
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OrderBy:
			if s.Desc {
				newestFirst = true
			}
		case specification.WithCitations:
			withCitation = true
		case specification.Pagination:
			page = s
		}
	}
	return out, newestFirst, withCitation, page
}

func matchesQuery(q *entity.Query, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if q.Id != s.ID.(uint) {
				return false
			}
		case specification.ByNotebookID:
			if q.NotebookId != s.NotebookID {
				return false
			}
		case specification.ByBatchID:
			if q.BatchId == nil || *q.BatchId != s.BatchID {
				return false
			}
		case specification.ByStatus:
			if string(q.Status) != s.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeQueryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Query, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeQueryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Query, error) {
	r.store.mu.Lock()
	out, newestFirst, withCitations, page := r.matching(specs)
	r.store.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].Id > out[j].Id
		}
		return out[i].Id < out[j].Id
	})

	if page.Limit > 0 {
		if page.Offset >= len(out) {
			out = nil
		} else {
			end := page.Offset + page.Limit
			if end > len(out) {
				end = len(out)
			}
			out = out[page.Offset:end]
		}
	}

	if withCitations {
		for _, q := range out {
			q.Citations = r.store.citationsFor(q.Id)
		}
	}
	return out, nil
}

func (r *fakeQueryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out, _, _, _ := r.matching(specs)
	return int64(len(out)), nil
}

type fakeCitationRepo struct{ store *fakeStore }

func (r *fakeCitationRepo) CreateBulk(ctx context.Context, citations []*entity.Citation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.citationErr != nil {
		return r.store.citationErr
	}
	for _, c := range citations {
		r.store.nextId++
		c.Id = r.store.nextId
		copied := *c
		r.store.citations = append(r.store.citations, &copied)
	}
	return nil
}

func (r *fakeCitationRepo) FindAllByQueryId(ctx context.Context, queryId uint) ([]*entity.Citation, error) {
	return r.store.citationsFor(queryId), nil
}

func (r *fakeCitationRepo) CountByQueryIds(ctx context.Context, queryIds []uint) (map[uint]int, error) {
	counts := map[uint]int{}
	for _, id := range queryIds {
		counts[id] = len(r.store.citationsFor(id))
	}
	return counts, nil
}

// --- engine ---

type fakeEngine struct {
	mu         sync.Mutex
	askFn      func(question string, conversationId *string) (*notebooklm.AskResult, error)
	asked      []string
	convs      []*string
	fulltexts  map[string]*notebooklm.Fulltext
	fetchErrs  map[string]error
	fetchCount map[string]int
	notebooks  []notebooklm.NotebookSummary
	listErr    error
	sources    map[string][]notebooklm.SourceSummary
	sourceErrs map[string]error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		fulltexts:  map[string]*notebooklm.Fulltext{},
		fetchErrs:  map[string]error{},
		fetchCount: map[string]int{},
		sources:    map[string][]notebooklm.SourceSummary{},
		sourceErrs: map[string]error{},
	}
}

func (e *fakeEngine) Ask(ctx context.Context, notebookId, question string, conversationId *string) (*notebooklm.AskResult, error) {
	e.mu.Lock()
	e.asked = append(e.asked, question)
	e.convs = append(e.convs, conversationId)
	fn := e.askFn
	e.mu.Unlock()

	if fn == nil {
		return &notebooklm.AskResult{Answer: "answer to " + question, ConversationId: "conv-1", TurnNumber: 1}, nil
	}
	return fn(question, conversationId)
}

func (e *fakeEngine) GetFulltext(ctx context.Context, notebookId, sourceId string) (*notebooklm.Fulltext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fetchCount[sourceId]++
	if err := e.fetchErrs[sourceId]; err != nil {
		return nil, err
	}
	ft, ok := e.fulltexts[sourceId]
	if !ok {
		return nil, errors.New("source not found")
	}
	copied := *ft
	copied.SourceId = sourceId
	return &copied, nil
}

func (e *fakeEngine) ListNotebooks(ctx context.Context) ([]notebooklm.NotebookSummary, error) {
	if e.listErr != nil {
		return nil, e.listErr
	}
	return e.notebooks, nil
}

func (e *fakeEngine) ListSources(ctx context.Context, notebookId string) ([]notebooklm.SourceSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.sourceErrs[notebookId]; err != nil {
		return nil, err
	}
	return e.sources[notebookId], nil
}

type fakeRefresher struct {
	handle *notebooklm.SessionHandle
	next   notebooklm.Engine
	err    error
	calls  int
}

func (r *fakeRefresher) Refresh(ctx context.Context) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.handle.Swap(r.next)
	return nil
}

// --- events ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
