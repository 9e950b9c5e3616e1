package hltv

import (
	"context"
	"errors"
	"fmt"

	"github.com/superjcd/gohltv/parser"
	"github.com/superjcd/gohltv/request"
)

const (
	KIND_PAGE             = "page"
	KIND_LIVE_MATCHES     = "live_matches"
	KIND_UPCOMING_MATCHES = "upcoming_matches"
	KIND_MATCH            = "match"
	KIND_RESULTS          = "results"
	KIND_EVENT_RESULTS    = "event_results"
	KIND_EVENT_MATCHES    = "event_matches"
	KIND_EVENTS           = "events"
	KIND_EVENT            = "event"
	KIND_TEAMS            = "teams"
	KIND_TEAM             = "team"
	KIND_PLAYERS          = "players"
	KIND_NEWS             = "news"
)

var ErrUnknownKind = errors.New("unknown job kind")

// Run executes one job and returns its records as items tagged with the job
// kind.
func (c *Client) Run(ctx context.Context, req *request.Request) ([]parser.ParseItem, error) {
	result, err := c.run(ctx, req)
	if err != nil {
		return nil, err
	}
	items, err := parser.ToItems(result)
	if err != nil {
		return nil, fmt.Errorf("convert %s records: %w", req.Kind, err)
	}
	for _, item := range items {
		item["kind"] = req.Kind
	}
	return items, nil
}

func (c *Client) run(ctx context.Context, req *request.Request) (interface{}, error) {
	switch req.Kind {
	case KIND_PAGE:
		url := req.Arg("url")
		content, err := c.FetchPage(ctx, url)
		if err != nil {
			return nil, err
		}
		return map[string]string{"url": url, "content": content}, nil
	case KIND_LIVE_MATCHES:
		return c.LiveMatches(ctx)
	case KIND_UPCOMING_MATCHES:
		return c.UpcomingMatches(ctx, req.Int("days", 1), req.Int("min_rating", 0))
	case KIND_MATCH:
		return c.MatchInfo(ctx, req.Arg("id"), req.Arg("team1"), req.Arg("team2"), req.Arg("event"))
	case KIND_RESULTS:
		return c.BigResults(ctx, req.Int("offset", 0))
	case KIND_EVENT_RESULTS:
		return c.EventResults(ctx, req.Arg("event"))
	case KIND_EVENT_MATCHES:
		return c.EventMatches(ctx, req.Arg("event"))
	case KIND_EVENTS:
		return c.Events(ctx, req.Int("max", -1))
	case KIND_EVENT:
		return c.EventInfo(ctx, req.Arg("id"), req.Arg("title"))
	case KIND_TEAMS:
		return c.TopTeams(ctx, req.Int("max", 30))
	case KIND_TEAM:
		return c.TeamInfo(ctx, req.Arg("id"), req.Arg("title"))
	case KIND_PLAYERS:
		return c.BestPlayers(ctx, req.Int("top", 40), req.Int("year", 0))
	case KIND_NEWS:
		return c.News(ctx, parser.NewsOptions{
			MaxRegular:   req.Int("max_regular", -1),
			OnlyToday:    req.Bool("only_today"),
			OnlyFeatured: req.Bool("only_featured"),
		})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
}
