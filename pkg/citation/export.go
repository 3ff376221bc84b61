package citation

import (
	"fmt"
	"sort"
)

// Reference is one stored citation as the export needs it.
type Reference struct {
	Number        int
	SourceTitle   string
	SourceAuthors string
	SourceDate    string
	CitedText     string
}

// Export is the rendered answer plus the footnotes it actually cites.
type Export struct {
	HTML      string
	Footnotes []Footnote
	Sources   []string
}

// BuildFootnotes keys footnotes by citation number. When the engine emitted
// the same number more than once the first reference wins.
func BuildFootnotes(refs []Reference) map[int]Footnote {
	footnotes := make(map[int]Footnote, len(refs))
	for _, ref := range refs {
		if _, seen := footnotes[ref.Number]; seen {
			continue
		}
		label := FormatLabel(ref.SourceAuthors, ref.SourceDate, ref.SourceTitle)
		footnotes[ref.Number] = Footnote{
			Number:     ref.Number,
			SourceFile: label,
			QuotedText: ref.CitedText,
			AriaLabel:  fmt.Sprintf("%d: %s", ref.Number, label),
		}
	}
	return footnotes
}

// BuildExport renders answer against all known footnotes and returns only the
// footnotes referenced by a marker in the text, ordered by number.
func BuildExport(answer string, refs []Reference) Export {
	footnotes := BuildFootnotes(refs)
	referenced := ExtractReferencedNumbers(answer)

	numbers := make([]int, 0, len(footnotes))
	for n := range footnotes {
		if referenced.Has(n) {
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)

	listed := make([]Footnote, 0, len(numbers))
	for _, n := range numbers {
		listed = append(listed, footnotes[n])
	}

	return Export{
		HTML:      Render(answer, footnotes),
		Footnotes: listed,
		Sources:   uniqueTitles(refs),
	}
}

func uniqueTitles(refs []Reference) []string {
	seen := make(map[string]struct{})
	titles := make([]string, 0)
	for _, ref := range refs {
		if ref.SourceTitle == "" {
			continue
		}
		if _, ok := seen[ref.SourceTitle]; ok {
			continue
		}
		seen[ref.SourceTitle] = struct{}{}
		titles = append(titles, ref.SourceTitle)
	}
	sort.Strings(titles)
	return titles
}
