package memory

import (
	"context"
	"time"

	"notebooklm-be/pkg/notebooklm"

	"github.com/patrickmn/go-cache"
)

// FulltextCache keeps source fulltexts in process memory. Source documents do
// not change between questions, so repeated enrichment of the same source
// only hits the engine once per TTL.
type FulltextCache struct {
	cache *cache.Cache
}

func NewFulltextCache(ttl time.Duration) *FulltextCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &FulltextCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func fulltextKey(notebookId, sourceId string) string {
	return notebookId + "/" + sourceId
}

func (r *FulltextCache) Save(notebookId string, ft *notebooklm.Fulltext) {
	r.cache.Set(fulltextKey(notebookId, ft.SourceId), ft, cache.DefaultExpiration)
}

func (r *FulltextCache) Get(notebookId, sourceId string) (*notebooklm.Fulltext, bool) {
	if x, found := r.cache.Get(fulltextKey(notebookId, sourceId)); found {
		return x.(*notebooklm.Fulltext), true
	}
	return nil, false
}

func (r *FulltextCache) Flush() {
	r.cache.Flush()
}

// CachingFetcher serves GetFulltext from the cache before asking next.
// Failures are never cached.
type CachingFetcher struct {
	next  notebooklm.FulltextFetcher
	cache *FulltextCache
}

func NewCachingFetcher(next notebooklm.FulltextFetcher, c *FulltextCache) *CachingFetcher {
	return &CachingFetcher{next: next, cache: c}
}

func (f *CachingFetcher) GetFulltext(ctx context.Context, notebookId, sourceId string) (*notebooklm.Fulltext, error) {
	if ft, ok := f.cache.Get(notebookId, sourceId); ok {
		return ft, nil
	}
	ft, err := f.next.GetFulltext(ctx, notebookId, sourceId)
	if err != nil {
		return nil, err
	}
	if ft.SourceId == "" {
		ft.SourceId = sourceId
	}
	f.cache.Save(notebookId, ft)
	return ft, nil
}
