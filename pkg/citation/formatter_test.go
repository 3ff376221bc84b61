package citation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sup(n int, label string) string {
	return fmt.Sprintf(`<sup class="citation" data-num="%d" data-source="%s" title="%d: %s">%d</sup>`, n, label, n, label, n)
}

func TestApplyMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bold italic stars", in: "***key***", want: "<strong><em>key</em></strong>"},
		{name: "bold italic underscores", in: "___key___", want: "<strong><em>key</em></strong>"},
		{name: "bold", in: "a **b** c", want: "a <strong>b</strong> c"},
		{name: "italic", in: "a *b* c", want: "a <em>b</em> c"},
		{name: "bold then italic", in: "**bold** and *it*", want: "<strong>bold</strong> and <em>it</em>"},
		{name: "arithmetic untouched", in: "2 * 3 * 4", want: "2 * 3 * 4"},
		{name: "intra word untouched", in: "snake*case*word", want: "snake*case*word"},
		{name: "italic after tag untouched", in: "<b>*x*", want: "<b>*x*"},
		{name: "no newline crossing", in: "*a\nb*", want: "*a\nb*"},
		{name: "unclosed", in: "a *b c", want: "a *b c"},
		{name: "punctuation after close", in: "(*see*).", want: "(<em>see</em>)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyMarkdown(tt.in))
		})
	}
}

func TestClassifyParagraph(t *testing.T) {
	assert.Equal(t, blockHeading, classifyParagraph("Summary:"))
	assert.Equal(t, blockHeading, classifyParagraph("- Key points:"))
	assert.Equal(t, blockList, classifyParagraph("- one\n- two"))
	assert.Equal(t, blockList, classifyParagraph("* one"))
	assert.Equal(t, blockParagraph, classifyParagraph("-no space"))
	assert.Equal(t, blockParagraph, classifyParagraph(strings.Repeat("x", 100)+":"))
	assert.Equal(t, blockHeading, classifyParagraph(strings.Repeat("x", 98)+":"))
}

func TestRender_EndToEndScenario(t *testing.T) {
	answer := "Summary:\n\nTech mediates experience [1, 2].\n\n- point one [3]\n- point two [4-5]"
	footnotes := map[int]Footnote{
		1: {Number: 1, SourceFile: "Ihde (2009), Postphenomenology"},
		2: {Number: 2, SourceFile: "Verbeek, What Things Do"},
		3: {Number: 3, SourceFile: "Latour"},
		4: {Number: 4, SourceFile: "(1986), Autonomous Technology"},
	}

	want := strings.Join([]string{
		"<h3>Summary:</h3>",
		"<p>Tech mediates experience " + sup(1, "Ihde (2009), Postphenomenology") + "," + sup(2, "Verbeek, What Things Do") + ".</p>",
		"<ul>\n<li>point one " + sup(3, "Latour") + "</li>\n<li>point two " + sup(4, "(1986), Autonomous Technology") + "," + sup(5, "") + "</li>\n</ul>",
	}, "\n")

	assert.Equal(t, want, Render(answer, footnotes))
}

func TestRender_Idempotent(t *testing.T) {
	answer := "Intro **bold** [1-3]\n\n* a [2]\n* b\n\nEnd *x* [9-3]."
	footnotes := map[int]Footnote{1: {SourceFile: "A"}, 2: {SourceFile: "B"}}

	assert.Equal(t, Render(answer, footnotes), Render(answer, footnotes))
}

func TestRender_EscapesLabelsOnly(t *testing.T) {
	footnotes := map[int]Footnote{1: {SourceFile: `Tom & "Jerry" <Cats>`}}

	got := Render("a <b>raw</b> claim [1]", footnotes)

	assert.Contains(t, got, `data-source="Tom &amp; &quot;Jerry&quot; &lt;Cats&gt;"`)
	assert.Contains(t, got, `title="1: Tom &amp; &quot;Jerry&quot; &lt;Cats&gt;"`)
	assert.True(t, strings.HasPrefix(got, "<p>a <b>raw</b> claim "))
}

func TestRender_MalformedGroups(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "reversed range kept", in: "x [9-3]", want: "<p>x [9-3]</p>"},
		{name: "unparseable part passes through", in: "x [1, 2-3-4]", want: "<p>x " + sup(1, "") + ",2-3-4</p>"},
		{name: "non numeric bracket untouched", in: "x [a]", want: "<p>x [a]</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.in, nil))
		})
	}
}

func TestRender_ParagraphSplitting(t *testing.T) {
	assert.Equal(t, "", Render("   \n\n  ", nil))
	assert.Equal(t, "<p>one</p>\n<p>two</p>", Render("one\n\n\n  \ntwo", nil))
	assert.Equal(t, "<p>line one\nline two</p>", Render("line one\nline two", nil))
}

func TestRender_ListItemsProcessedIndependently(t *testing.T) {
	got := Render("* **first** [1]\n* *second*", map[int]Footnote{1: {SourceFile: "S"}})

	want := "<ul>\n<li><strong>first</strong> " + sup(1, "S") + "</li>\n<li><em>second</em></li>\n</ul>"
	assert.Equal(t, want, got)
}
