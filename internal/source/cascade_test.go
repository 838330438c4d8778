package source

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestFirstMatch(t *testing.T) {
	doc := parseHTML(t, `<div class="new-layout"><span>hit</span></div>`)

	sel := firstMatch(doc, []string{".old-layout", ".new-layout"})
	require.NotNil(t, sel)
	assert.Equal(t, "hit", strings.TrimSpace(sel.Text()))

	assert.Nil(t, firstMatch(doc, []string{".a", ".b"}))
}

func TestFirstText(t *testing.T) {
	doc := parseHTML(t, `<div id="item">
		<span class="empty">   </span>
		<span class="title"> Thực tập sinh </span>
	</div>`)
	item := doc.Find("#item")

	// An empty-text match does not stop the cascade.
	assert.Equal(t, "Thực tập sinh", firstText(item, []string{".empty", ".title"}))
	assert.Equal(t, "", firstText(item, []string{".missing"}))
}

func TestFirstAttr(t *testing.T) {
	doc := parseHTML(t, `<div id="item">
		<a class="no-href">x</a>
		<a class="link" href=" /job/1 ">y</a>
	</div>`)
	item := doc.Find("#item")

	assert.Equal(t, "/job/1", firstAttr(item, []string{".no-href", ".link"}, "href"))
	assert.Equal(t, "", firstAttr(item, []string{".missing"}, "href"))
}
