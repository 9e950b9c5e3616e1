package hltv

import (
	"fmt"
	"strings"
	"time"
)

const BASE_URL = "https://www.hltv.org"

func (c *Client) matchesURL() string {
	return c.baseURL + "/matches"
}

func (c *Client) matchURL(id, team1, team2, event string) string {
	slug := strings.Join([]string{slugify(team1), "vs", slugify(team2), slugify(event)}, "-")
	return fmt.Sprintf("%s/matches/%s/%s", c.baseURL, id, slug)
}

func (c *Client) resultsURL(offset int) string {
	return fmt.Sprintf("%s/results?offset=%d", c.baseURL, offset)
}

func (c *Client) eventResultsURL(eventID string) string {
	return fmt.Sprintf("%s/results?event=%s", c.baseURL, eventID)
}

func (c *Client) eventMatchesURL(eventID string) string {
	return fmt.Sprintf("%s/events/%s/matches", c.baseURL, eventID)
}

func (c *Client) eventsURL() string {
	return c.baseURL + "/events"
}

func (c *Client) eventURL(id, title string) string {
	return fmt.Sprintf("%s/events/%s/%s", c.baseURL, id, slugify(title))
}

// rankingURL points at the ranking published on the Monday of the week of now.
func (c *Client) rankingURL(now time.Time) string {
	monday := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	return fmt.Sprintf("%s/ranking/teams/%d/%s/%02d",
		c.baseURL, monday.Year(), strings.ToLower(monday.Month().String()), monday.Day())
}

func (c *Client) teamURL(id, title string) string {
	return fmt.Sprintf("%s/team/%s/%s", c.baseURL, id, slugify(title))
}

func (c *Client) playersURL(year int) string {
	return fmt.Sprintf("%s/stats/players?startDate=%d-01-01&endDate=%d-12-31&rankingFilter=Top20", c.baseURL, year, year)
}

func (c *Client) newsURL() string {
	return c.baseURL + "/"
}

func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
