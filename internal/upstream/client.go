
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"polymer-kinetics-api/internal/observability"
)

// DefaultBaseURL is the polymer database the service proxies.
const DefaultBaseURL = "http://polymerdesign.de"

const (
	endpointMonomers  = "getMonomers.php"
	endpointSolutions = "getSolutionAndCoefficient.php"
	endpointTable     = "index.php"
)

// Response is a raw upstream answer.
type Response struct {
	Body        []byte
	ContentType string
	Elapsed     time.Duration
}

// StatusError is returned for any non-2xx upstream answer.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: http status %d", e.Endpoint, e.Code)
}

// TimeoutError is returned when the client gave up waiting on the upstream,
// either through its own timeout or the caller's deadline. It matches
// context.DeadlineExceeded under errors.Is.
type TimeoutError struct {
	Endpoint string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("upstream %s: timed out: %v", e.Endpoint, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) Is(target error) bool { return target == context.DeadlineExceeded }

// TableQuery selects one coefficient table through the index.php form.
type TableQuery struct {
	Identifier  string
	Monomer     string
	Coefficient string
	Solution    string
}

func (q TableQuery) form() map[string]string {
	return map[string]string{
		"identifier_":        q.Identifier,
		"monomer_select":     q.Monomer,
		"coefficient_select": q.Coefficient,
		"solution":           q.Solution,
	}
}

type Options struct {
	BaseURL     string
	Timeout     time.Duration
	DialTimeout time.Duration
	UserAgent   string
}

// Client talks to the polymer database. Every method performs exactly one
// request and never retries.
type Client struct {
	http    *resty.Client
	baseURL string
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "polymer-kinetics-api/1.0"
	}
	rc := resty.NewWithClient(&http.Client{
		Transport: newTransport(opts),
		Timeout:   opts.Timeout,
	}).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	return &Client{
		http:    rc,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// newTransport is tuned for a single upstream host. A coefficient lookup
// issues one request per solution back to back, so idle connections to that
// host are kept, while a slow PHP script is cut off once headers are late.
func newTransport(opts Options) *http.Transport {
	dialer := &net.Dialer{Timeout: opts.DialTimeout, KeepAlive: 30 * time.Second}
	t := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 16,
		MaxConnsPerHost:     32,
		IdleConnTimeout:     60 * time.Second,
		TLSHandshakeTimeout: opts.DialTimeout,
	}
	if opts.Timeout > 0 {
		t.ResponseHeaderTimeout = opts.Timeout
	}
	return t
}

// Monomers lists every monomer known upstream, named by identifier.
func (c *Client) Monomers(ctx context.Context, identifier string) (Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("identifier", identifier)
	return c.do(req, http.MethodGet, endpointMonomers)
}

// Solutions fetches the solution <select> fragment of a monomer. An empty
// body means the monomer is unknown.
func (c *Client) Solutions(ctx context.Context, identifier, monomer string) (Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":      identifier,
			"monomer": monomer,
		})
	return c.do(req, http.MethodGet, endpointSolutions)
}

// Table posts the main form and returns the page holding one coefficient table.
func (c *Client) Table(ctx context.Context, q TableQuery) (Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetFormData(q.form())
	return c.do(req, http.MethodPost, endpointTable)
}

func (c *Client) do(req *resty.Request, method, endpoint string) (Response, error) {
	start := time.Now()
	res, err := c.send(req, method, endpoint)
	observability.ObserveUpstream(endpoint, err, time.Since(start))
	return res, err
}

func (c *Client) send(req *resty.Request, method, endpoint string) (Response, error) {
	// The PHP scripts are addressed with a trailing slash on the GET endpoints.
	url := c.baseURL + "/" + endpoint
	if method == http.MethodGet {
		url += "/"
	}
	resp, err := req.Execute(method, url)
	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return Response{}, &TimeoutError{Endpoint: endpoint, Err: err}
		}
		return Response{}, fmt.Errorf("upstream %s: %w", endpoint, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return Response{}, &StatusError{Endpoint: endpoint, Code: resp.StatusCode()}
	}
	return Response{
		Body:        resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
		Elapsed:     resp.Time(),
	}, nil
}
