// Package input reads the free-text self description from a file, a URL or
// standard input.
package input

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// Stdin is the source name that selects standard input.
const Stdin = "-"

// maxBytes caps how much is read from any source.
const maxBytes = 1 << 20

// DefaultFetchTimeout bounds URL fetches.
const DefaultFetchTimeout = 30 * time.Second

//nolint:gochecknoglobals // compiled once
var whitespace = regexp.MustCompile(`\s+`)

// Reader resolves description sources.
type Reader struct {
	HTTPClient *http.Client
	Stdin      io.Reader
}

// NewReader returns a reader over os.Stdin with a bounded HTTP client.
func NewReader() (r *Reader) {
	r = &Reader{
		HTTPClient: &http.Client{Timeout: DefaultFetchTimeout},
		Stdin:      os.Stdin,
	}
	return r
}

// Read returns the text behind source: "-" for stdin, an http(s) URL whose
// page text is extracted, or a file path.
func (r *Reader) Read(ctx context.Context, source string) (content string, err error) {
	switch {
	case source == Stdin:
		content, err = readAll(r.Stdin)
		if err != nil {
			err = errors.Wrap(err, "failed to read description from stdin")
			return content, err
		}

	case isURL(source):
		content, err = r.fetchURL(ctx, source)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch description from URL: %s", source)
			return content, err
		}

	default:
		content, err = readFile(source)
		if err != nil {
			err = errors.Wrapf(err, "failed to read description from file: %s", source)
			return content, err
		}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		err = errors.Errorf("description source %q is empty", source)
		return content, err
	}

	return content, err
}

func isURL(s string) (ok bool) {
	u, err := url.Parse(s)
	ok = err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	return ok
}

func readAll(rd io.Reader) (content string, err error) {
	if rd == nil {
		err = errors.New("no reader")
		return content, err
	}

	var data []byte
	data, err = io.ReadAll(io.LimitReader(rd, maxBytes))
	if err != nil {
		return content, err
	}

	content = string(data)

	return content, err
}

func readFile(path string) (content string, err error) {
	var f *os.File
	f, err = os.Open(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to open file: %s", path)
		return content, err
	}
	defer f.Close()

	content, err = readAll(f)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	return content, err
}

func (r *Reader) fetchURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}
	req.Header.Set("User-Agent", "resume-builder/1.0")

	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	var body string
	body, err = readAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return content, err
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "html") || strings.HasPrefix(strings.TrimSpace(body), "<") {
		content, err = TextFromHTML(body)
		return content, err
	}

	content = body

	return content, err
}

// TextFromHTML returns the visible text of an HTML page, preferring <main>
// or <article> over the whole body, with whitespace collapsed.
func TextFromHTML(html string) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	doc.Find("script, style, noscript, nav, footer, header").Remove()

	sel := doc.Find("body")
	for _, s := range []string{"main", "article"} {
		if found := doc.Find(s); found.Length() > 0 {
			sel = found.First()
			break
		}
	}

	text = strings.TrimSpace(whitespace.ReplaceAllString(sel.Text(), " "))

	return text, err
}
