// Package resty implements the portal session with
// github.com/go-resty/resty/v2.
package resty

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/fwojciec/orderscrape"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
)

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Ensure Gateway implements orderscrape.Gateway at compile time.
var _ orderscrape.Gateway = (*Gateway)(nil)

// Gateway holds one authenticated session with the portal. Cookies set by
// the portal are kept for the lifetime of the Gateway.
type Gateway struct {
	client   *resty.Client
	detector orderscrape.LoginDetector

	baseURL   string
	loginURL  string
	ordersURL string
	email     string
	password  string

	timeout   time.Duration
	userAgent string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout sets the timeout for each HTTP request.
// Defaults to orderscrape.DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(g *Gateway) {
		g.userAgent = ua
	}
}

// NewGateway creates a Gateway for the portal described by cfg. The
// detector recognizes responses that still show the sign-in form.
func NewGateway(cfg orderscrape.Config, detector orderscrape.LoginDetector, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		detector:  detector,
		baseURL:   cfg.BaseURL,
		loginURL:  cfg.LoginURL,
		ordersURL: cfg.OrdersURL,
		email:     cfg.Email,
		password:  cfg.Password,
		timeout:   cfg.Timeout,
		userAgent: DefaultUserAgent,
	}
	if g.loginURL == "" {
		g.loginURL = orderscrape.LoginURLFor(g.baseURL)
	}
	if g.timeout <= 0 {
		g.timeout = orderscrape.DefaultTimeout
	}
	for _, opt := range opts {
		opt(g)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	g.client = resty.New().
		SetCookieJar(jar).
		SetTimeout(g.timeout).
		SetHeader("User-Agent", g.userAgent).
		SetHeader("Referer", g.baseURL)

	return g, nil
}

// Login opens the landing page to pick up session cookies, then posts the
// credentials to the sign-in form. Returns EUNAUTHORIZED when the response
// still shows the sign-in form.
func (g *Gateway) Login(ctx context.Context) error {
	if _, err := g.get(ctx, g.baseURL, "initial GET to base URL"); err != nil {
		return err
	}

	res, err := g.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"email":    g.email,
			"password": g.password,
			"action":   "signin",
		}).
		Post(g.loginURL)
	if err != nil {
		return orderscrape.WrapError(orderscrape.EINTERNAL, err, "login POST failed")
	}
	if err := checkStatus(res, "login POST"); err != nil {
		return err
	}

	html, err := decode(res)
	if err != nil {
		return orderscrape.WrapError(orderscrape.EINTERNAL, err, "decode login response")
	}
	if g.detector.IsLoginPage(html) {
		return orderscrape.Errorf(orderscrape.EUNAUTHORIZED, "login failed: still seeing the sign-in form")
	}
	return nil
}

// FetchOrders retrieves the orders page with the current session.
// Returns EUNAUTHORIZED when the portal answers with the sign-in form.
func (g *Gateway) FetchOrders(ctx context.Context) (*orderscrape.RawDocument, error) {
	res, err := g.get(ctx, g.ordersURL, "GET orders URL")
	if err != nil {
		return nil, err
	}

	html, err := decode(res)
	if err != nil {
		return nil, orderscrape.WrapError(orderscrape.EINTERNAL, err, "decode orders page")
	}
	if g.detector.IsLoginPage(html) {
		return nil, orderscrape.Errorf(orderscrape.EUNAUTHORIZED, "session not authenticated when fetching orders page")
	}

	return &orderscrape.RawDocument{URL: res.Request.URL, HTML: html}, nil
}

func (g *Gateway) get(ctx context.Context, url, op string) (*resty.Response, error) {
	res, err := g.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, orderscrape.WrapError(orderscrape.EINTERNAL, err, "%s failed", op)
	}
	if err := checkStatus(res, op); err != nil {
		return nil, err
	}
	return res, nil
}

// checkStatus rejects non-2xx responses. 401 and 403 map to EUNAUTHORIZED.
func checkStatus(res *resty.Response, op string) error {
	if res.IsSuccess() {
		return nil
	}
	code := orderscrape.EINTERNAL
	if res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden {
		code = orderscrape.EUNAUTHORIZED
	}
	return orderscrape.Errorf(code, "%s failed: HTTP %d for %s", op, res.StatusCode(), res.Request.URL)
}

// decode converts the response body to UTF-8 using the declared charset.
func decode(res *resty.Response) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("Content-Type"))
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
