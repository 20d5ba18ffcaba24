package wikipedia

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Infobox selectors, most specific first.
var infoboxSelectors = []string{
	"table.infobox.ib-company.vcard",
	"table.infobox.vcard",
	"table.infobox",
}

const (
	leadParagraphs = 3
	noiseSelector  = "sup.reference, style, script, .noprint, .mw-editsection"
)

var errNoCompanyInfo = errors.New("company information table not found")

// ExtractProfile turns an article into a free-text profile: one "Header: value" line per
// infobox row, or the lead paragraphs when the article has no infobox.
func ExtractProfile(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	if lines := infoboxLines(doc); len(lines) > 0 {
		return strings.Join(lines, "\n"), nil
	}

	var paragraphs []string
	doc.Find("#mw-content-text .mw-parser-output > p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := cleanText(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < leadParagraphs
	})

	if len(paragraphs) == 0 {
		return "", errNoCompanyInfo
	}

	return strings.Join(paragraphs, "\n\n"), nil
}

func infoboxLines(doc *goquery.Document) []string {
	var table *goquery.Selection
	for _, selector := range infoboxSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			table = found.First()
			break
		}
	}
	if table == nil {
		return nil
	}

	var lines []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		header := row.Find("th").First()
		data := row.Find("td").First()
		if header.Length() == 0 || data.Length() == 0 {
			return
		}

		key := cleanText(header.Text())
		value := cellText(data)
		if key == "" || value == "" {
			return
		}

		lines = append(lines, key+": "+value)
	})

	return lines
}

// cellText keeps list items and line breaks apart, so "Audio streaming<br>Podcasting"
// becomes "Audio streaming, Podcasting".
func cellText(cell *goquery.Selection) string {
	cell = cell.Clone()
	cell.Find("br").ReplaceWithHtml(", ")
	cell.Find("li").AppendHtml(", ")

	text := cleanText(cell.Text())
	return strings.TrimRight(text, ", ")
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
