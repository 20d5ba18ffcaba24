package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/fitscore/internal/company"
)

const (
	apiURL    = "https://en.wikipedia.org"
	userAgent = "spigell/fitscore (https://github.com/spigell/fitscore)"
	// Wikimedia asks clients to stay well below this for unauthenticated access.
	defaultRequestsPerSecond = 5
)

// Chooser picks one page out of the search candidates.
type Chooser func(ctx context.Context, query string, pages []Page) (Page, error)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	APIURL            string
	UserAgent         string
	Candidates        int
	RequestsPerSecond float64
	Timeout           time.Duration
	Choose            Chooser
}

// Client is a profile source backed by Wikipedia title search and article infoboxes.
type Client struct {
	logger     *zap.Logger
	limiter    *rate.Limiter
	candidates int
	choose     Chooser
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(strings.TrimSpace(opts.APIURL), "/")
	if base == "" {
		base = apiURL
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = userAgent
	}

	candidates := opts.Candidates
	if candidates <= 0 {
		candidates = 1
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	choose := opts.Choose
	if choose == nil {
		choose = First
	}

	return &Client{
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		candidates: candidates,
		choose:     choose,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		UserAgent:  ua,
		APIURL:     base,
	}
}

// First picks the top search result.
func First(_ context.Context, _ string, pages []Page) (Page, error) {
	return pages[0], nil
}

// Fetch searches for the company and returns its infobox as a free-text profile.
func (c *Client) Fetch(ctx context.Context, name string) (company.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return company.Profile{}, fmt.Errorf("%w: company name is empty", company.ErrProfileNotFound)
	}

	pages, err := c.Search(ctx, name, c.candidates)
	if err != nil {
		return company.Profile{}, err
	}

	if len(pages) == 0 {
		return company.Profile{}, fmt.Errorf("%w: no search results for %q", company.ErrProfileNotFound, name)
	}

	page := pages[0]
	if len(pages) > 1 {
		page, err = c.choose(ctx, name, pages)
		if err != nil {
			return company.Profile{}, fmt.Errorf("choosing search result: %w", err)
		}
	}

	c.logger.Info("found company", zap.String("page_key", page.Key), zap.String("title", page.Title))

	pageURL := fmt.Sprintf("%s/wiki/%s", c.APIURL, url.PathEscape(page.Key))

	html, err := c.getHTML(ctx, pageURL)
	if err != nil {
		return company.Profile{}, err
	}
	defer html.Close()

	text, err := ExtractProfile(html)
	if err != nil {
		return company.Profile{}, fmt.Errorf("%w: page %q: %v", company.ErrProfileNotFound, page.Key, err)
	}

	return company.Profile{
		Name: page.Title,
		URL:  pageURL,
		Text: text,
	}, nil
}
