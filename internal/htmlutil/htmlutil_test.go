package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div class="a">Vid&nbsp;pizzerian. <b>Tisdag</b> 6 oktober</div>
		<div class="a">second</div>
	`))
	require.NoError(t, err)

	require.Equal(t, "Vid pizzerian. Tisdag 6 oktober", Text(doc.Find(".a")))
	require.Equal(t, "", Text(doc.Find(".missing")))
}
