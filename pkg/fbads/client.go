// Package fbads is the Meta Graph API collaborator: campaign insights,
// statuses, ad-set budgets and creative preview links.
package fbads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	DefaultVersion = "v19.0"

	graphBaseURL   = "https://graph.facebook.com"
	requestTimeout = 60 * time.Second
)

// APIError is a non-2xx Graph API response.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("graph api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("graph api error %d", e.Status)
}

// Client issues authenticated Graph API GETs and hands back raw JSON bodies.
type Client struct {
	http    *retryablehttp.Client
	token   string
	version string
	baseURL string
}

// NewClient builds a Graph API client for the given access token. version
// may be empty to use DefaultVersion.
func NewClient(token, version string) *Client {
	if version == "" {
		version = DefaultVersion
	}
	hc := retryablehttp.NewClient()
	hc.RetryMax = 3
	hc.Logger = nil
	hc.HTTPClient.Timeout = requestTimeout
	return &Client{
		http:    hc,
		token:   token,
		version: version,
		baseURL: graphBaseURL,
	}
}

// SetProxy routes all Graph API traffic through an HTTP proxy.
func (c *Client) SetProxy(proxy string) error {
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy %q: %w", proxy, err)
	}
	c.http.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	return nil
}

// get performs GET <base>/<version>/<path>?<params> with the access token
// appended, returning the response body as a string for gjson field picking.
func (c *Client) get(ctx context.Context, path string, params url.Values) (string, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", c.token)
	u := c.baseURL + "/" + c.version + "/" + strings.TrimPrefix(path, "/") + "?" + params.Encode()
	return c.getURL(ctx, u)
}

// getURL fetches an absolute URL; used for paging cursors, which already
// carry the full query string.
func (c *Client) getURL(ctx context.Context, u string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", &APIError{
			Status:  resp.StatusCode,
			Message: gjson.GetBytes(body, "error.message").Str,
			Body:    string(body),
		}
	}
	return string(body), nil
}

// sanitizeAccountID normalizes an ad account ID to the act_<id> form the
// Graph API expects.
func sanitizeAccountID(accountID string) string {
	s := strings.TrimSpace(accountID)
	if strings.HasPrefix(s, "act_") {
		return s
	}
	return "act_" + s
}
