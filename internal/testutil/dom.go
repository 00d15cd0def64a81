package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

// ParseHTML parses a page or htmx fragment for assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err, "parse html")
	return doc
}

// ViewID returns the view id a full page was mounted under.
func ViewID(t testing.TB, doc *goquery.Document) string {
	t.Helper()

	id, ok := doc.Find("body").Attr("data-view-id")
	require.True(t, ok, "page carries no view id")
	_, err := ulid.ParseStrict(id)
	require.NoError(t, err, "view id %q", id)
	return id
}

// CardIDs lists the element ids of the service cards in render order.
func CardIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find("#services article.card").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("id", ""))
	})
	return ids
}

// Text returns the trimmed text of the first match of selector.
func Text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}
