package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/company"
)

const contentType = "application/json"

func (c *Client) getJSON(ctx context.Context, service, endpoint string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Accept", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(ctx, service, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(service, resp, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return transportError(service, resp, fmt.Errorf("decode response: %w", err))
	}

	return nil
}

// getHTML returns the body of a successful GET. The caller closes it.
func (c *Client) getHTML(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Accept", "text/html")

	resp, err := c.request(ctx, "wikipedia page", req)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// request waits for the rate limiter, performs the call and rejects non-200 answers.
func (c *Client) request(ctx context.Context, service string, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &company.UpstreamError{Kind: company.ErrProfileTransport, Service: service, Err: err}
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &company.UpstreamError{Kind: company.ErrProfileTransport, Service: service, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, transportError(service, resp, nil)
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	return req
}

func transportError(service string, resp *http.Response, err error) error {
	out := &company.UpstreamError{Kind: company.ErrProfileTransport, Service: service, Err: err}
	if resp != nil {
		out.StatusCode = resp.StatusCode
		if resp.StatusCode != http.StatusOK {
			out.Status = resp.Status
		}
	}
	return out
}
