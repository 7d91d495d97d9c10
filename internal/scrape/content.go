package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Hrefs extracts all link hrefs from a document, trimmed and deduplicated.
func (p *Parser) Hrefs(doc *goquery.Document) []string {
	var links []string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		if href, exists := s.Attr("href"); exists {
			href = strings.TrimSpace(href)
			if href != "" && href != "#" {
				links = append(links, href)
			}
		}
	})
	return Deduplicate(links)
}

// Title extracts the page title, falling back to og:title.
func (p *Parser) Title(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").Text())
	if title == "" {
		title = doc.Find("meta[property='og:title']").AttrOr("content", "")
	}
	return title
}

// Text extracts visible body text with normalized whitespace.
func (p *Parser) Text(doc *goquery.Document) string {
	return NormalizeWhitespace(doc.Find("body").Text())
}

// XPathTexts evaluates an XPath expression and returns node texts.
func (p *Parser) XPathTexts(htmlStr, expr string) ([]string, error) {
	node, err := p.LoadNode(htmlStr)
	if err != nil {
		return nil, err
	}

	matches, err := htmlquery.QueryAll(node, expr)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(matches))
	for _, match := range matches {
		texts = append(texts, strings.TrimSpace(htmlquery.InnerText(match)))
	}
	return texts, nil
}
