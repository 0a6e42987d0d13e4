// Package netx fetches objects over plain HTTP, as served by presigned links.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// NewClient returns a retrying HTTP client that stays silent.
func NewClient(retryMax int) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retryMax
	c.Logger = nil
	return c
}

// FetchURL copies the body of a GET on url into dst and returns the number of
// bytes written. Any status other than 200 is an error.
func FetchURL(ctx context.Context, c *retryablehttp.Client, url string, dst io.Writer) (int64, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("fetch failed: %s; body: %s", resp.Status, string(b))
	}
	return io.Copy(dst, resp.Body)
}
