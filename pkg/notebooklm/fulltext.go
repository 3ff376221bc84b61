package notebooklm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fulltext is the complete extracted text of one notebook source.
type Fulltext struct {
	SourceId string
	Title    string
	Content  string
}

// ContextMatch is a window of source text around one occurrence of a cited
// passage. Start and End are rune offsets into the content.
type ContextMatch struct {
	Text  string
	Start int
	End   int
}

// FindContext locates query in the content, ignoring case and differences in
// whitespace, and returns a window of at least windowChars runes around each
// occurrence, widened to whole words. A trailing ellipsis on query is ignored.
// When the full passage is not found and the last word may have been cut by
// the engine, the search is retried without it.
func (f *Fulltext) FindContext(query string, windowChars int) []ContextMatch {
	if f == nil || f.Content == "" {
		return nil
	}

	fields := strings.Fields(trimEllipsis(query))
	if len(fields) == 0 {
		return nil
	}

	locs := findPassage(f.Content, fields)
	if len(locs) == 0 && len(fields) > 1 {
		locs = findPassage(f.Content, fields[:len(fields)-1])
	}
	if len(locs) == 0 {
		return nil
	}

	runes := []rune(f.Content)
	matches := make([]ContextMatch, 0, len(locs))
	for _, loc := range locs {
		start := utf8.RuneCountInString(f.Content[:loc[0]])
		end := start + utf8.RuneCountInString(f.Content[loc[0]:loc[1]])
		s, e := widen(runes, start, end, windowChars)
		matches = append(matches, ContextMatch{
			Text:  strings.TrimSpace(string(runes[s:e])),
			Start: s,
			End:   e,
		})
	}
	return matches
}

func trimEllipsis(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "...")
	text = strings.TrimSuffix(text, "…")
	text = strings.TrimPrefix(text, "...")
	text = strings.TrimPrefix(text, "…")
	return strings.TrimSpace(text)
}

func findPassage(content string, fields []string) [][]int {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = regexp.QuoteMeta(field)
	}
	pattern, err := regexp.Compile(`(?i)` + strings.Join(quoted, `\s+`))
	if err != nil {
		return nil
	}
	return pattern.FindAllStringIndex(content, -1)
}

// widen grows [start, end) symmetrically to at least window runes, shifting
// at the content edges, then extends both ends to the nearest whitespace.
func widen(runes []rune, start, end, window int) (int, int) {
	total := len(runes)
	if pad := window - (end - start); pad > 0 {
		left := pad / 2
		start -= left
		end += pad - left
		if start < 0 {
			end -= start
			start = 0
		}
		if end > total {
			start -= end - total
			end = total
			if start < 0 {
				start = 0
			}
		}
	}

	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	for end < total && !unicode.IsSpace(runes[end]) {
		end++
	}
	return start, end
}
