package godbolt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/compscope/internal/correlate"
)

// DefaultTimeout bounds one service round trip. A hard cap keeps an
// unresponsive service from parking a task forever.
const DefaultTimeout = 30 * time.Second

// Client talks to one Compiler Explorer-style service instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a client for the service at baseURL, e.g.
// "https://godbolt.org".
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadBaseURL, baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service URL the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// Languages lists the languages the service can compile.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	body, err := c.get(ctx, "/api/languages?fields=id,name,extensions")
	if err != nil {
		return nil, err
	}

	var langs []Language
	for _, r := range gjson.ParseBytes(body).Array() {
		lang := Language{
			ID:   r.Get("id").String(),
			Name: r.Get("name").String(),
		}
		for _, ext := range r.Get("extensions").Array() {
			lang.Extensions = append(lang.Extensions, ext.String())
		}
		langs = append(langs, lang)
	}
	return langs, nil
}

// Compilers lists the compilers available for a language.
func (c *Client) Compilers(ctx context.Context, languageID string) ([]Compiler, error) {
	path := fmt.Sprintf("/api/compilers/%s?fields=id,name,lang", url.PathEscape(languageID))
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var compilers []Compiler
	for _, r := range gjson.ParseBytes(body).Array() {
		compilers = append(compilers, Compiler{
			ID:   r.Get("id").String(),
			Name: r.Get("name").String(),
			Lang: r.Get("lang").String(),
		})
	}
	return compilers, nil
}

// Formats lists the source formatters the service offers.
func (c *Client) Formats(ctx context.Context) ([]Formatter, error) {
	body, err := c.get(ctx, "/api/formats")
	if err != nil {
		return nil, err
	}

	var formats []Formatter
	for _, r := range gjson.ParseBytes(body).Array() {
		f := Formatter{
			Type: r.Get("type").String(),
			Name: r.Get("name").String(),
		}
		for _, style := range r.Get("styles").Array() {
			f.Styles = append(f.Styles, style.String())
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// Compile submits a source text for compilation and returns the
// annotated output lines. One round trip, no retry.
func (c *Client) Compile(ctx context.Context, req CompileRequest) (*CompileResult, error) {
	if req.Source == "" {
		return nil, ErrEmptySource
	}

	payload, err := compilePayload(req)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/api/compiler/%s/compile", url.PathEscape(req.CompilerID))
	body, err := c.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(body)
	result := &CompileResult{
		Code:   int(doc.Get("code").Int()),
		Stdout: textLines(doc.Get("stdout")),
		Stderr: textLines(doc.Get("stderr")),
	}
	for i, r := range doc.Get("asm").Array() {
		line := correlate.AnnotatedLine{
			Index: i + 1,
			Text:  r.Get("text").String(),
		}
		// A source annotation only counts when it refers to the text
		// that was submitted: the service sets source.file for lines
		// that come from headers or other files.
		src := r.Get("source.line")
		if src.Exists() && src.Type != gjson.Null && r.Get("source.file").Type == gjson.Null {
			line.Source = int(src.Int())
		}
		result.Lines = append(result.Lines, line)
	}
	return result, nil
}

// Format submits a source text for formatting.
func (c *Client) Format(ctx context.Context, req FormatRequest) (*FormatResult, error) {
	if req.Source == "" {
		return nil, ErrEmptySource
	}

	payload, err := formatPayload(req)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/api/format/%s", url.PathEscape(req.FormatterType))
	body, err := c.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(body)
	return &FormatResult{
		Exit: int(doc.Get("exit").Int()),
		Text: doc.Get("answer").String(),
	}, nil
}

// compilePayload builds the compile request body.
func compilePayload(req CompileRequest) (string, error) {
	body, err := sjson.Set("", "source", req.Source)
	if err != nil {
		return "", fmt.Errorf("godbolt: build request: %w", err)
	}
	if body, err = sjson.Set(body, "options.userArguments", req.UserArguments); err != nil {
		return "", fmt.Errorf("godbolt: build request: %w", err)
	}
	filters := map[string]bool{
		"binary":       false,
		"binaryObject": false,
		"commentOnly":  true,
		"demangle":     true,
		"directives":   true,
		"execute":      false,
		"intel":        req.Intel,
		"labels":       true,
		"libraryCode":  false,
		"trim":         false,
	}
	for name, val := range filters {
		if body, err = sjson.Set(body, "options.filters."+name, val); err != nil {
			return "", fmt.Errorf("godbolt: build request: %w", err)
		}
	}
	return body, nil
}

// formatPayload builds the format request body.
func formatPayload(req FormatRequest) (string, error) {
	body, err := sjson.Set("", "source", req.Source)
	if err != nil {
		return "", fmt.Errorf("godbolt: build request: %w", err)
	}
	if req.Style != "" {
		if body, err = sjson.Set(body, "base", req.Style); err != nil {
			return "", fmt.Errorf("godbolt: build request: %w", err)
		}
	}
	return body, nil
}

// textLines flattens a service text-line array.
func textLines(arr gjson.Result) []string {
	var out []string
	for _, r := range arr.Array() {
		out = append(out, r.Get("text").String())
	}
	return out
}

// get performs one GET round trip.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("godbolt: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// post performs one POST round trip with a JSON body.
func (c *Client) post(ctx context.Context, path, payload string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("godbolt: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// do executes a request and returns the response body, converting
// non-2xx statuses into a ServiceError carrying the service's message.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("godbolt: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("godbolt: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Message:    serviceMessage(body),
		}
	}
	return body, nil
}

// serviceMessage extracts the most useful error text from a failure
// body. The service reports errors either as {"error": "..."} or as
// bare text.
func serviceMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error").String(); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(body))
}
