package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/memory"
	"notebooklm-be/pkg/notebooklm"
)

const DefaultContextChars = 300

type ICitationEnricher interface {
	Enrich(ctx context.Context, fetcher notebooklm.FulltextFetcher, notebookId string, citations []*entity.Citation)
}

type citationEnricher struct {
	cache        *memory.FulltextCache
	contextChars int
	logger       logger.ILogger
}

// NewCitationEnricher builds the enricher. cache may be nil, in which case
// every enrichment fetches fresh fulltexts.
func NewCitationEnricher(cache *memory.FulltextCache, contextChars int, logger logger.ILogger) ICitationEnricher {
	if contextChars <= 0 {
		contextChars = DefaultContextChars
	}
	return &citationEnricher{
		cache:        cache,
		contextChars: contextChars,
		logger:       logger,
	}
}

// Enrich fills missing titles and widens short quotes using each cited
// source's fulltext. It fetches every distinct source once and skips sources
// that fail to load. Existing values are never cleared.
func (e *citationEnricher) Enrich(ctx context.Context, fetcher notebooklm.FulltextFetcher, notebookId string, citations []*entity.Citation) {
	if fetcher == nil || len(citations) == 0 {
		return
	}
	if e.cache != nil {
		fetcher = memory.NewCachingFetcher(fetcher, e.cache)
	}

	order := make([]string, 0)
	groups := make(map[string][]*entity.Citation)
	for _, c := range citations {
		if c.SourceId == nil || *c.SourceId == "" {
			continue
		}
		sourceId := *c.SourceId
		if _, ok := groups[sourceId]; !ok {
			order = append(order, sourceId)
		}
		groups[sourceId] = append(groups[sourceId], c)
	}

	for _, sourceId := range order {
		fulltext, err := fetcher.GetFulltext(ctx, notebookId, sourceId)
		if err != nil {
			e.logger.Warn("enricher", "Could not fetch fulltext", map[string]interface{}{
				"notebook_id": notebookId,
				"source_id":   sourceId,
				"error":       err.Error(),
			})
			continue
		}

		for _, c := range groups[sourceId] {
			e.enrichOne(c, fulltext)
		}
	}
}

func (e *citationEnricher) enrichOne(c *entity.Citation, fulltext *notebooklm.Fulltext) {
	if (c.SourceTitle == nil || *c.SourceTitle == "") && fulltext.Title != "" {
		title := fulltext.Title
		c.SourceTitle = &title
	}

	if c.CitedText == nil || *c.CitedText == "" {
		return
	}
	if utf8.RuneCountInString(*c.CitedText) >= e.contextChars {
		return
	}

	matches := fulltext.FindContext(*c.CitedText, e.contextChars)
	if len(matches) == 0 {
		return
	}
	expanded := strings.TrimSpace(matches[0].Text)
	if expanded == "" {
		return
	}
	c.CitedText = &expanded
}
