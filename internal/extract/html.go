package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// documentURL anchors relative links; exported Drive HTML has no real origin.
var documentURL = &url.URL{Scheme: "https", Host: "docs.google.com", Path: "/document"}

// HTML extracts the readable text of an HTML document, title first.
func HTML(data []byte) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), documentURL)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if article.Title != "" && !strings.HasPrefix(text, article.Title) {
		text = article.Title + "\n\n" + text
	}
	return text, nil
}
