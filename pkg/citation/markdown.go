package citation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	boldItalicStarPattern       = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	boldItalicUnderscorePattern = regexp.MustCompile(`___(.+?)___`)
	boldPattern                 = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// applyMarkdown converts the inline markdown subset the engine emits.
// Order matters: longer delimiters are consumed before shorter ones.
func applyMarkdown(text string) string {
	text = boldItalicStarPattern.ReplaceAllString(text, "<strong><em>$1</em></strong>")
	text = boldItalicUnderscorePattern.ReplaceAllString(text, "<strong><em>$1</em></strong>")
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	return applyItalic(text)
}

// applyItalic wraps *span* in <em>. An opening asterisk must not follow a word
// character, another asterisk or a closing tag bracket, and must not be
// followed by whitespace. A closing asterisk must not follow whitespace and
// must not be followed by a word character or asterisk. Spans never cross a
// newline.
func applyItalic(text string) string {
	if !strings.Contains(text, "*") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 16)

	last := 0
	i := 0
	for i < len(text) {
		if text[i] != '*' || !canOpenItalic(text, i) {
			i++
			continue
		}
		end := findItalicClose(text, i)
		if end < 0 {
			i++
			continue
		}
		b.WriteString(text[last:i])
		b.WriteString("<em>")
		b.WriteString(text[i+1 : end])
		b.WriteString("</em>")
		last = end + 1
		i = end + 1
	}
	b.WriteString(text[last:])
	return b.String()
}

func canOpenItalic(text string, i int) bool {
	if prev, ok := runeBefore(text, i); ok {
		if isWordRune(prev) || prev == '*' || prev == '>' {
			return false
		}
	}
	next, ok := runeAfter(text, i+1)
	if !ok {
		return false
	}
	return !unicode.IsSpace(next) && next != '*'
}

// findItalicClose returns the index of the first asterisk after open that
// can close the span, or -1.
func findItalicClose(text string, open int) int {
	for j := open + 2; j < len(text); j++ {
		switch text[j] {
		case '\n':
			return -1
		case '*':
			prev, _ := runeBefore(text, j)
			if unicode.IsSpace(prev) || prev == '*' {
				continue
			}
			if next, ok := runeAfter(text, j+1); ok && (isWordRune(next) || next == '*') {
				continue
			}
			return j
		}
	}
	return -1
}

func runeBefore(text string, i int) (rune, bool) {
	if i <= 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return r, true
}

func runeAfter(text string, i int) (rune, bool) {
	if i >= len(text) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return r, true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
