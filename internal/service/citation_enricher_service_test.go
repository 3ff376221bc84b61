package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/repository/memory"
	"notebooklm-be/pkg/notebooklm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enricherContent = "Chapter one sets the scene. Rivers carry sediment from the mountains to the sea over many centuries. Chapter two covers deltas."

func TestCitationEnricher_Enrich(t *testing.T) {
	tests := []struct {
		name       string
		citation   *entity.Citation
		wantTitle  *string
		wantText   *string
		textChecks func(t *testing.T, text string)
	}{
		{
			name:      "fills missing title",
			citation:  &entity.Citation{CitationNumber: 1, SourceId: strPtr("src-1")},
			wantTitle: strPtr("Rivers and Deltas"),
		},
		{
			name:      "keeps existing title",
			citation:  &entity.Citation{CitationNumber: 1, SourceId: strPtr("src-1"), SourceTitle: strPtr("Local")},
			wantTitle: strPtr("Local"),
		},
		{
			name:      "expands short quote",
			citation:  &entity.Citation{CitationNumber: 1, SourceId: strPtr("src-1"), CitedText: strPtr("carry sediment")},
			wantTitle: strPtr("Rivers and Deltas"),
			textChecks: func(t *testing.T, text string) {
				assert.Contains(t, text, "Rivers carry sediment from the mountains")
			},
		},
		{
			name:      "tolerates whitespace and ellipsis",
			citation:  &entity.Citation{CitationNumber: 1, SourceId: strPtr("src-1"), CitedText: strPtr("carry   sediment\nfrom...")},
			wantTitle: strPtr("Rivers and Deltas"),
			textChecks: func(t *testing.T, text string) {
				assert.Contains(t, text, "Rivers carry sediment from the mountains")
			},
		},
		{
			name:      "leaves unmatched quote alone",
			citation:  &entity.Citation{CitationNumber: 1, SourceId: strPtr("src-1"), CitedText: strPtr("volcanic ash")},
			wantTitle: strPtr("Rivers and Deltas"),
			wantText:  strPtr("volcanic ash"),
		},
		{
			name:      "skips citations without a source",
			citation:  &entity.Citation{CitationNumber: 1, CitedText: strPtr("carry sediment")},
			wantTitle: nil,
			wantText:  strPtr("carry sediment"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newFakeEngine()
			engine.fulltexts["src-1"] = &notebooklm.Fulltext{Title: "Rivers and Deltas", Content: enricherContent}

			enricher := NewCitationEnricher(nil, 60, testLogger)
			enricher.Enrich(context.Background(), engine, "nb-1", []*entity.Citation{tt.citation})

			if tt.wantTitle == nil {
				assert.Nil(t, tt.citation.SourceTitle)
			} else {
				require.NotNil(t, tt.citation.SourceTitle)
				assert.Equal(t, *tt.wantTitle, *tt.citation.SourceTitle)
			}
			if tt.wantText != nil {
				require.NotNil(t, tt.citation.CitedText)
				assert.Equal(t, *tt.wantText, *tt.citation.CitedText)
			}
			if tt.textChecks != nil {
				require.NotNil(t, tt.citation.CitedText)
				tt.textChecks(t, *tt.citation.CitedText)
			}
		})
	}
}

func TestCitationEnricher_LongQuoteUntouched(t *testing.T) {
	engine := newFakeEngine()
	engine.fulltexts["src-1"] = &notebooklm.Fulltext{Title: "Rivers and Deltas", Content: enricherContent}

	quote := "Rivers carry sediment from the mountains to the sea over many centuries."
	c := &entity.Citation{CitationNumber: 1, SourceId: strPtr("src-1"), CitedText: strPtr(quote)}

	NewCitationEnricher(nil, 20, testLogger).Enrich(context.Background(), engine, "nb-1", []*entity.Citation{c})
	assert.Equal(t, quote, *c.CitedText)
}

func TestCitationEnricher_FetchesEachSourceOnce(t *testing.T) {
	engine := newFakeEngine()
	engine.fulltexts["src-1"] = &notebooklm.Fulltext{Title: "One", Content: enricherContent}
	engine.fulltexts["src-2"] = &notebooklm.Fulltext{Title: "Two", Content: enricherContent}

	citations := []*entity.Citation{
		{CitationNumber: 1, SourceId: strPtr("src-1")},
		{CitationNumber: 2, SourceId: strPtr("src-2")},
		{CitationNumber: 3, SourceId: strPtr("src-1")},
	}

	NewCitationEnricher(nil, 0, testLogger).Enrich(context.Background(), engine, "nb-1", citations)

	assert.Equal(t, 1, engine.fetchCount["src-1"])
	assert.Equal(t, 1, engine.fetchCount["src-2"])
	assert.Equal(t, "One", *citations[0].SourceTitle)
	assert.Equal(t, "Two", *citations[1].SourceTitle)
	assert.Equal(t, "One", *citations[2].SourceTitle)
}

func TestCitationEnricher_SkipsFailedSource(t *testing.T) {
	engine := newFakeEngine()
	engine.fetchErrs["src-bad"] = errors.New("bridge exploded")
	engine.fulltexts["src-1"] = &notebooklm.Fulltext{Title: "Good", Content: enricherContent}

	citations := []*entity.Citation{
		{CitationNumber: 1, SourceId: strPtr("src-bad"), CitedText: strPtr("carry sediment")},
		{CitationNumber: 2, SourceId: strPtr("src-1")},
	}

	NewCitationEnricher(nil, 0, testLogger).Enrich(context.Background(), engine, "nb-1", citations)

	assert.Nil(t, citations[0].SourceTitle)
	assert.Equal(t, "carry sediment", *citations[0].CitedText)
	assert.Equal(t, "Good", *citations[1].SourceTitle)
}

func TestCitationEnricher_CacheSpansCalls(t *testing.T) {
	engine := newFakeEngine()
	engine.fulltexts["src-1"] = &notebooklm.Fulltext{Title: "Cached", Content: enricherContent}

	enricher := NewCitationEnricher(memory.NewFulltextCache(time.Minute), 0, testLogger)
	for i := 0; i < 3; i++ {
		c := &entity.Citation{CitationNumber: 1, SourceId: strPtr("src-1")}
		enricher.Enrich(context.Background(), engine, "nb-1", []*entity.Citation{c})
		assert.Equal(t, "Cached", *c.SourceTitle)
	}
	assert.Equal(t, 1, engine.fetchCount["src-1"])
}

func TestCitationEnricher_NilFetcher(t *testing.T) {
	c := &entity.Citation{CitationNumber: 1, SourceId: strPtr("src-1"), CitedText: strPtr("x")}
	assert.NotPanics(t, func() {
		NewCitationEnricher(nil, 0, testLogger).Enrich(context.Background(), nil, "nb-1", []*entity.Citation{c})
	})
	assert.Equal(t, "x", *c.CitedText)
}
