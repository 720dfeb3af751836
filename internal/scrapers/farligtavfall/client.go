package farligtavfall

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"gfa-backend/internal/components/telemetry"
	"sync"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL     = "https://goteborg.se"
	DefaultLandingPath = "/wps/portal/start/avfall-och-atervinning/har-lamnar-hushall-avfall/farligtavfallbilen/farligt-avfall-bilen"
	// DefaultPagingPath is a paging path taken from the site, used when the
	// landing page has no pagination link to discover it from.
	DefaultPagingPath = DefaultLandingPath + "/!ut/p/z1/04_Sj9CPykssy0xPLMnMz0vMAfIjo8ziTYzcDQy9TAy9_f1MnAwcvXxd_JwM3Y3cPcz0w8EKDFCAo4FTkJGTsYGBu7-RfhTp-pFNIk4_HgVR-I2PBOo3x6k_wEg_WD9KP6ogMT0zDxwm-pGGpgb6BbmhoRFVIY4ARalqmA!!/dz/d5/L2dBISEvZ0FBIS9nQSEh/p0/IZ7_42G01J41KON4B0AJMDNB1G2GP2=CZ6_42G01J41KON4B0AJMDNB1G2GH6=MDfilterDirection!filterOrganisationType!filterArea=Epagination!0==/"
)

const (
	report_client_fetch_pages = "client.fetch-pages"
	report_client_fetch_page  = "client.fetch-page"
)

type ClientOptions struct {
	BaseURL     string
	LandingPath string
	// PagingPath is discovered from the landing page when empty.
	PagingPath       string
	CloudflareBypass bool
}

type Client struct {
	http *resty.Client
	opts ClientOptions
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.LandingPath == "" {
		opts.LandingPath = DefaultLandingPath
	}
	tel = telemetry.NewScopedAPI("farligtavfall", tel)

	client := resty.New()
	client.SetHeader("accept-language", "sv-SE,sv;q=0.9")
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	telemetry.InstrumentResty(client, "scrapers/farligtavfall", tel)

	return Client{
		http: client,
		opts: opts,
		tel:  tel,
	}
}

// FetchPages fetches the landing page to learn the number of entries, then
// every listing page concurrently. Pages come back in listing order. If any
// page fails no pages are returned and the error joins every failure.
func (c Client) FetchPages(ctx context.Context) ([][]byte, error) {
	landingURL := c.opts.BaseURL + c.opts.LandingPath
	landing, err := c.fetchPage(ctx, landingURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(landing))
	if err != nil {
		return nil, newError(KindMarkupStructure, "could not parse landing page", landingURL, err)
	}
	total, err := findTotal(doc)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_pages, err, landingURL)
		return nil, err
	}
	pagingPath := c.opts.PagingPath
	if pagingPath == "" {
		pagingPath, err = findPagingPath(doc)
		if err != nil {
			c.tel.ReportWarning(report_client_fetch_pages, err, landingURL)
			pagingPath = DefaultPagingPath
		}
	}

	urls := PageURLs(c.opts.BaseURL, pagingPath, total)
	c.tel.ReportDebug("fetching pages", total, len(urls))
	c.tel.ReportCount(report_client_fetch_pages, int64(len(urls)))

	pages := make([][]byte, len(urls))
	var errList []error
	errLock := sync.Mutex{}
	wg := sync.WaitGroup{}

	for i, link := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()

			page, err := c.fetchPage(ctx, link)
			if err != nil {
				errLock.Lock()
				defer errLock.Unlock()
				errList = append(errList, err)
				return
			}
			pages[i] = page
		}()
	}

	wg.Wait()

	if len(errList) > 0 {
		return nil, errors.Join(errList...)
	}

	// the total promised entries, a page without any means the markup moved
	for i, page := range pages {
		hasItems, err := HasItems(page)
		if err == nil && !hasItems {
			err = newError(KindMarkupStructure, "page lists no entries", urls[i], nil)
		}
		if err != nil {
			c.tel.ReportBroken(report_client_fetch_pages, err)
			errList = append(errList, asError(err, KindMarkupStructure))
		}
	}
	if len(errList) > 0 {
		return nil, errors.Join(errList...)
	}
	return pages, nil
}

func (c Client) fetchPage(ctx context.Context, link string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		err = newError(KindFetch, "request failed", link, err)
		c.tel.ReportBroken(report_client_fetch_page, err)
		return nil, err
	}
	if !res.IsSuccess() {
		err = newError(KindFetch, fmt.Sprintf("unexpected status %d", res.StatusCode()), link, nil)
		c.tel.ReportBroken(report_client_fetch_page, err)
		return nil, err
	}
	body := res.Body()
	if len(body) == 0 {
		err = newError(KindFetch, "empty response body", link, nil)
		c.tel.ReportBroken(report_client_fetch_page, err)
		return nil, err
	}
	return body, nil
}
