package farligtavfall

import (
	"bytes"
	"fmt"
	"gfa-backend/internal/htmlutil"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageSize is the number of entries the site lists per page.
const PageSize = 30

var (
	totalRegex      = regexp.MustCompile(`Hittade\s+(\d+)`)
	paginationRegex = regexp.MustCompile(`Epagination!\d+==/`)
)

func parseDocument(page []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, newError(KindMarkupStructure, "could not parse html", "", err)
	}
	return doc, nil
}

// FindTotal reads the "Hittade <N>" result count of a listing page.
func FindTotal(page []byte) (uint16, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return 0, err
	}
	return findTotal(doc)
}

func findTotal(doc *goquery.Document) (uint16, error) {
	bar := doc.Find(".c-result-bar").First()
	if bar.Length() == 0 {
		return 0, newError(KindMarkupStructure, "result bar not found", "", nil)
	}
	text := htmlutil.Text(bar)
	match := totalRegex.FindStringSubmatch(text)
	if match == nil {
		return 0, newError(KindMarkupStructure, "result count not found", strings.TrimSpace(text), nil)
	}
	total, err := strconv.ParseUint(match[1], 10, 16)
	if err != nil {
		return 0, newError(KindMarkupStructure, "result count is not a 16-bit count", match[1], err)
	}
	return uint16(total), nil
}

// FindPagingPath returns the href of the first pagination link, the path
// that PageURLs turns into one url per page.
func FindPagingPath(page []byte) (string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return "", err
	}
	return findPagingPath(doc)
}

func findPagingPath(doc *goquery.Document) (string, error) {
	link := doc.Find(".c-pagination__link").First()
	if link.Length() == 0 {
		return "", newError(KindMarkupStructure, "pagination link not found", "", nil)
	}
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return "", newError(KindMarkupStructure, "pagination link has no href", "", nil)
	}
	return href, nil
}

// PageURLs returns ceil(total/PageSize) urls, the i-th with its
// "Epagination!<N>==/" token set to offset i*PageSize.
func PageURLs(baseURL, pagingPath string, total uint16) []string {
	count := (int(total) + PageSize - 1) / PageSize
	urls := make([]string, count)
	for i := range count {
		token := fmt.Sprintf("Epagination!%d==/", i*PageSize)
		urls[i] = baseURL + paginationRegex.ReplaceAllLiteralString(pagingPath, token)
	}
	return urls
}

// HasItems reports whether the page lists at least one entry.
func HasItems(page []byte) (bool, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return false, err
	}
	return doc.Find(".c-snippet__title").Length() > 0, nil
}
