package citation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// headingMaxLength is the viewer's threshold for treating a colon-terminated
// paragraph as a heading.
const headingMaxLength = 100

var (
	paragraphBreakPattern = regexp.MustCompile(`\n\s*\n`)
	listItemSplitPattern  = regexp.MustCompile(`\n[-*]\s`)
)

var attributeEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// Footnote is the resolved record behind a citation marker, in the field
// layout the external viewer expects.
type Footnote struct {
	Number         int    `json:"number"`
	SourceFile     string `json:"source_file"`
	QuotedText     string `json:"quoted_text"`
	ContextSnippet string `json:"context_snippet"`
	AriaLabel      string `json:"aria_label"`
}

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockList
)

// classifyParagraph applies the viewer's block grammar, first match wins:
// short colon-terminated text is a heading, a leading "- " or "* " is a list,
// anything else is a paragraph.
func classifyParagraph(para string) blockKind {
	if utf8.RuneCountInString(para) < headingMaxLength && strings.HasSuffix(strings.TrimRight(para, " \t\r\n"), ":") {
		return blockHeading
	}
	if strings.HasPrefix(para, "- ") || strings.HasPrefix(para, "* ") {
		return blockList
	}
	return blockParagraph
}

// Render converts answer text into the viewer's HTML body. Inline markdown is
// applied first, then every marker group is replaced with one <sup> marker
// per cited number. Answer text is not escaped; only labels placed in
// attributes are.
func Render(answer string, footnotes map[int]Footnote) string {
	if strings.TrimSpace(answer) == "" {
		return ""
	}

	blocks := make([]string, 0)
	for _, para := range paragraphBreakPattern.Split(answer, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		switch classifyParagraph(para) {
		case blockHeading:
			blocks = append(blocks, "<h3>"+renderInline(para, footnotes)+"</h3>")
		case blockList:
			blocks = append(blocks, renderList(para, footnotes))
		default:
			blocks = append(blocks, "<p>"+renderInline(para, footnotes)+"</p>")
		}
	}

	return strings.Join(blocks, "\n")
}

func renderList(para string, footnotes map[int]Footnote) string {
	// para starts with a two-byte bullet, see classifyParagraph
	items := listItemSplitPattern.Split(para[2:], -1)

	var b strings.Builder
	b.WriteString("<ul>\n")
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		b.WriteString("<li>")
		b.WriteString(renderInline(item, footnotes))
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>")
	return b.String()
}

func renderInline(text string, footnotes map[int]Footnote) string {
	return replaceMarkers(applyMarkdown(text), footnotes)
}

func replaceMarkers(text string, footnotes map[int]Footnote) string {
	return markerGroupPattern.ReplaceAllStringFunc(text, func(group string) string {
		inner := group[1 : len(group)-1]
		pieces := make([]string, 0)
		cited := false
		for _, part := range parseGroup(inner) {
			switch {
			case len(part.Numbers) > 0:
				cited = true
				for _, n := range part.Numbers {
					pieces = append(pieces, marker(n, footnotes[n].SourceFile))
				}
			case part.IsRange:
				// reversed or oversized range: nothing to cite
			default:
				pieces = append(pieces, part.Raw)
			}
		}
		// groups that cite nothing stay as written
		if !cited {
			return group
		}
		return strings.Join(pieces, ",")
	})
}

func marker(n int, label string) string {
	escaped := attributeEscaper.Replace(label)
	return fmt.Sprintf(
		`<sup class="citation" data-num="%d" data-source="%s" title="%d: %s">%d</sup>`,
		n, escaped, n, escaped, n,
	)
}
