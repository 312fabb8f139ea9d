package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Page is the document a Browser currently shows.
type Page struct {
	URL    string
	Status int
	Body   []byte
}

// Browser is a PageContext backed by an HTTP client. Submissions follow
// redirects and whatever the server answers with becomes the current page.
type Browser struct {
	base *url.URL
	http *http.Client

	mu   sync.Mutex
	page Page
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) BrowserOption {
	return func(b *Browser) { b.http = c }
}

// NewBrowser creates a Browser rooted at baseURL. The current page starts out
// as baseURL itself.
func NewBrowser(baseURL string, opts ...BrowserOption) (*Browser, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}

	b := &Browser{
		base: base,
		http: &http.Client{},
		page: Page{URL: base.String()},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// CurrentURL returns the address of the current page.
func (b *Browser) CurrentURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page.URL
}

// Page returns a copy of the current page.
func (b *Browser) Page() Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.page
	p.Body = append([]byte(nil), b.page.Body...)
	return p
}

// Navigate loads path (relative to the base URL) with a GET.
func (b *Browser) Navigate(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.resolve(path), nil)
	if err != nil {
		return err
	}
	return b.load(req)
}

// Submit posts fields as a urlencoded form to endpoint and navigates to the
// response. Error statuses are pages like any other; only a request that
// never produced a response is an error.
func (b *Browser) Submit(ctx context.Context, endpoint string, fields url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.resolve(endpoint), strings.NewReader(fields.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.load(req)
}

func (b *Browser) load(req *http.Request) error {
	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", resp.Request.URL, err)
	}

	b.mu.Lock()
	b.page = Page{
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Body:   body,
	}
	b.mu.Unlock()
	return nil
}

func (b *Browser) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return b.base.String() + ref
	}
	return b.base.ResolveReference(u).String()
}
