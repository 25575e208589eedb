package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	DuckDuckGoName     = "duckduckgo"
	DuckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

	defaultMaxResults = 5
	maxBodyBytes      = 1 << 20
)

// Result is a single parsed search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// DuckDuckGo queries the DuckDuckGo HTML endpoint. No API key is needed.
// Requests are throttled by a token bucket shared by all callers.
type DuckDuckGo struct {
	endpoint   string
	client     *http.Client
	limiter    *rate.Limiter
	maxResults int
}

// DuckDuckGoOption configures a DuckDuckGo searcher.
type DuckDuckGoOption func(*DuckDuckGo)

// WithEndpoint overrides the search endpoint.
func WithEndpoint(endpoint string) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.client = c }
}

// WithRateLimit allows r requests per second with the given burst.
// A non-positive r removes the limit.
func WithRateLimit(r float64, burst int) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if r <= 0 {
			d.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		d.limiter = rate.NewLimiter(rate.Limit(r), max(burst, 1))
	}
}

// WithMaxResults caps the number of results rendered.
func WithMaxResults(n int) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if n > 0 {
			d.maxResults = n
		}
	}
}

// NewDuckDuckGo creates a searcher with a 30s HTTP timeout and a limit of
// one request per second with a burst of 3.
func NewDuckDuckGo(opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		endpoint:   DuckDuckGoEndpoint,
		client:     &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
		maxResults: defaultMaxResults,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search runs query and renders the hits as plain text, one block per hit.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	results, err := d.Results(ctx, query)
	if err != nil {
		return "", err
	}
	return FormatResults(results), nil
}

// Results runs query and returns the parsed hits.
func (d *DuckDuckGo) Results(ctx context.Context, query string) ([]Result, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	searchURL := d.endpoint + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return ParseResults(string(body), d.maxResults)
}

// FormatResults renders hits as "title\nurl\nsnippet" blocks.
func FormatResults(results []Result) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.Title)
		sb.WriteString("\n")
		sb.WriteString(r.URL)
		sb.WriteString("\n")
		if r.Snippet != "" {
			sb.WriteString(r.Snippet)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ParseResults extracts up to maxResults hits from a DuckDuckGo HTML page.
func ParseResults(page string, maxResults int) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var results []Result

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}

		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			if r := extractResult(n); r.URL != "" && r.Title != "" {
				results = append(results, r)
			}
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return results, nil
}

func extractResult(n *html.Node) Result {
	var r Result

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				r.URL = attr(n, "href")
				r.Title = text(n)
			case hasClass(n, "result__snippet"):
				r.Snippet = text(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	r.URL = unwrapRedirect(r.URL)
	return r
}

// unwrapRedirect resolves DuckDuckGo's /l/?uddg= redirect links to the
// target URL.
func unwrapRedirect(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	if u.Path != "/l/" {
		return link
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return link
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
