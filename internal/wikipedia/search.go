package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/fitscore/internal/company"
)

const (
	SearchPath = "/w/rest.php/v1/search/title"
	// The REST search endpoint caps limit at 100.
	maxLimit = 100
)

type Item interface{}

type searchResponse struct {
	Pages []Item `json:"pages"`
}

// Page is one title search result.
type Page struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Search runs a title search and returns up to limit pages.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Page, error) {
	if limit <= 0 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))

	var response searchResponse
	if err := c.getJSON(ctx, "wikipedia search", c.APIURL+SearchPath, q, &response); err != nil {
		return nil, err
	}

	var pages []Page
	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &pages,
		TagName:          "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(response.Pages); err != nil {
		return nil, &company.UpstreamError{
			Kind:    company.ErrProfileTransport,
			Service: "wikipedia search",
			Err:     fmt.Errorf("decode search pages: %w", err),
		}
	}

	valid := pages[:0]
	for _, page := range pages {
		if page.Key != "" {
			valid = append(valid, page)
		}
	}

	return valid, nil
}
