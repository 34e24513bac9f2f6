package text

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockElements = "address, article, aside, blockquote, br, dd, div, dl, dt, figcaption, footer, " +
	"h1, h2, h3, h4, h5, h6, header, hr, li, main, nav, ol, p, pre, section, table, td, th, tr, ul"

// HTMLToText extracts the visible body text of an HTML document or
// fragment. Script and style content is dropped and whitespace collapsed.
func HTMLToText(s string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	// Keep words in adjacent blocks apart.
	doc.Find(blockElements).AfterHtml(" ")

	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}
