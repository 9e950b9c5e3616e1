package hltv

import (
	"context"

	"github.com/superjcd/gohltv/parser"
)

func (c *Client) LiveMatches(ctx context.Context) ([]parser.LiveMatch, error) {
	doc, err := c.document(ctx, c.matchesURL())
	if err != nil {
		return nil, err
	}
	return parser.LiveMatches(doc), nil
}

func (c *Client) UpcomingMatches(ctx context.Context, days, minRating int) ([]parser.MatchDay, error) {
	doc, err := c.document(ctx, c.matchesURL())
	if err != nil {
		return nil, err
	}
	return parser.UpcomingMatches(doc, days, minRating)
}

func (c *Client) MatchInfo(ctx context.Context, id, team1, team2, event string) (*parser.MatchInfo, error) {
	doc, err := c.document(ctx, c.matchURL(id, team1, team2, event))
	if err != nil {
		return nil, err
	}
	return parser.ParseMatchInfo(doc, id)
}

func (c *Client) BigResults(ctx context.Context, offset int) ([]parser.Result, error) {
	doc, err := c.document(ctx, c.resultsURL(offset))
	if err != nil {
		return nil, err
	}
	return parser.BigResults(doc), nil
}

func (c *Client) EventResults(ctx context.Context, eventID string) ([]parser.ResultDay, error) {
	doc, err := c.document(ctx, c.eventResultsURL(eventID))
	if err != nil {
		return nil, err
	}
	return parser.EventResults(doc)
}

func (c *Client) EventMatches(ctx context.Context, eventID string) ([]parser.EventMatch, error) {
	doc, err := c.document(ctx, c.eventMatchesURL(eventID))
	if err != nil {
		return nil, err
	}
	return parser.EventMatches(doc), nil
}

func (c *Client) Events(ctx context.Context, max int) ([]parser.Event, error) {
	doc, err := c.document(ctx, c.eventsURL())
	if err != nil {
		return nil, err
	}
	return parser.Events(doc, max), nil
}

func (c *Client) EventInfo(ctx context.Context, id, title string) (*parser.EventInfo, error) {
	doc, err := c.document(ctx, c.eventURL(id, title))
	if err != nil {
		return nil, err
	}
	return parser.ParseEventInfo(doc, id, title)
}

func (c *Client) TopTeams(ctx context.Context, max int) ([]parser.RankedTeam, error) {
	doc, err := c.document(ctx, c.rankingURL(c.today()))
	if err != nil {
		return nil, err
	}
	return parser.TopTeams(doc, max)
}

func (c *Client) TeamInfo(ctx context.Context, id, title string) (*parser.TeamInfo, error) {
	doc, err := c.document(ctx, c.teamURL(id, title))
	if err != nil {
		return nil, err
	}
	return parser.ParseTeamInfo(doc, id, title)
}

// BestPlayers returns the top players of year; a zero year means the current one.
func (c *Client) BestPlayers(ctx context.Context, top, year int) ([]parser.Player, error) {
	if year == 0 {
		year = c.today().Year()
	}
	doc, err := c.document(ctx, c.playersURL(year))
	if err != nil {
		return nil, err
	}
	return parser.BestPlayers(doc, top)
}

func (c *Client) News(ctx context.Context, opts parser.NewsOptions) ([]parser.NewsDay, error) {
	doc, err := c.document(ctx, c.newsURL())
	if err != nil {
		return nil, err
	}
	return parser.News(doc, c.today(), opts), nil
}
