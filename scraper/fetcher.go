package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-catalog/config"
)

const (
	ctxBody   = "body"
	ctxStatus = "status"
	ctxStart  = "start"
)

// Fetcher retrieves the raw body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// CollyFetcher issues one synchronous colly request per Fetch.
type CollyFetcher struct {
	collector *colly.Collector
	metrics   *Metrics
}

// NewCollyFetcher builds a synchronous collector restricted to the base URL's host.
func NewCollyFetcher(cfg *config.Config, metrics *Metrics) (*CollyFetcher, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	options := []colly.CollectorOption{
		colly.AllowedDomains(parsed.Hostname()),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	}
	if cfg.MaxBodySize > 0 {
		options = append(options, colly.MaxBodySize(cfg.MaxBodySize))
	}
	collector := colly.NewCollector(options...)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	f := &CollyFetcher{collector: collector, metrics: metrics}
	f.registerHandlers()
	return f, nil
}

func (f *CollyFetcher) registerHandlers() {
	f.collector.OnRequest(func(r *colly.Request) {
		r.Ctx.Put(ctxStart, time.Now())
		slog.Debug("fetching page", slog.String("url", r.URL.String()))
	})

	f.collector.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(ctxBody, r.Body)
		r.Ctx.Put(ctxStatus, r.StatusCode)
		if start, ok := r.Ctx.GetAny(ctxStart).(time.Time); ok {
			f.metrics.ObserveDuration(time.Since(start))
		}
	})

	f.collector.OnError(func(r *colly.Response, err error) {
		if r == nil || r.Ctx == nil {
			return
		}
		r.Ctx.Put(ctxStatus, r.StatusCode)
		if start, ok := r.Ctx.GetAny(ctxStart).(time.Time); ok {
			f.metrics.ObserveDuration(time.Since(start))
		}
	})
}

// Fetch performs a GET and returns the body. Failures come back classified.
func (f *CollyFetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reqCtx := colly.NewContext()
	if err := f.collector.Request(http.MethodGet, target, nil, reqCtx, nil); err != nil {
		status, _ := reqCtx.GetAny(ctxStatus).(int)
		return nil, classifyError(err, status)
	}

	body, _ := reqCtx.GetAny(ctxBody).([]byte)
	return body, nil
}
