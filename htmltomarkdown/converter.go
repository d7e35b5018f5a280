// Package htmltomarkdown renders extracted content as Markdown.
package htmltomarkdown

import (
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/postpdf"
)

// Converter turns the two kinds of extracted text into Markdown: article
// bodies, which are markup, and post text, which is plain text that must
// read literally.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with CommonMark and table support.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Body converts an article body fragment. A blank fragment yields an
// empty string.
func (c *Converter) Body(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	md, err := c.conv.ConvertString(fragment)
	if err != nil {
		return "", postpdf.Errorf(postpdf.ERENDER, "converting article body: %v", err)
	}
	return strings.TrimSpace(md), nil
}

// Text converts raw post text. Characters Markdown would interpret are
// escaped and every newline becomes a hard line break.
func (c *Converter) Text(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	md, err := c.conv.ConvertString("<p>" + strings.Join(lines, "<br>") + "</p>")
	if err != nil {
		return "", postpdf.Errorf(postpdf.ERENDER, "converting post text: %v", err)
	}
	return strings.TrimSpace(md), nil
}

// Inline escapes a single-line value such as a name or alt text. Runs of
// whitespace collapse to one space. Values that fail to convert are
// returned as-is.
func (c *Converter) Inline(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	md, err := c.Text(s)
	if err != nil {
		return s
	}
	return md
}
