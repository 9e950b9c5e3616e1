// Package hltv is the page level API: it fetches hltv.org pages through a
// fetcher and hands them to the parsers.
package hltv

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/superjcd/gohltv/fetcher"
	"github.com/superjcd/gohltv/parser"
	"go.uber.org/zap"
)

type Client struct {
	fetcher fetcher.Fetcher
	options
}

func NewClient(f fetcher.Fetcher, opts ...Option) *Client {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.baseURL == "" {
		o.baseURL = BASE_URL
	}
	if o.location == nil {
		o.location = time.UTC
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Client{fetcher: f, options: o}
}

// FetchPage returns the content of url. Fetch errors are returned unchanged
// so callers can match them with errors.As.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	if c.cache != nil && c.cacheTTL > 0 {
		content, ok, err := c.cache.Get(url)
		if err != nil {
			c.logger.Warn("page cache read failed", zap.String("url", url), zap.Error(err))
		} else if ok {
			return content, nil
		}
	}

	page, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(url, page.Body, c.cacheTTL); err != nil {
			c.logger.Warn("page cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return page.Body, nil
}

func (c *Client) document(ctx context.Context, url string) (*goquery.Document, error) {
	content, err := c.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := parser.NewDocument(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

func (c *Client) today() time.Time {
	return c.now().In(c.location)
}
