package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Result struct {
	ID     string `json:"id"`
	Team1  string `json:"team1"`
	Team2  string `json:"team2"`
	Score1 string `json:"score1"`
	Score2 string `json:"score2"`
}

type ResultDay struct {
	Date    string   `json:"date"`
	Matches []Result `json:"matches"`
}

type EventMatch struct {
	ID    string `json:"id"`
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
	Date  string `json:"date"`
	Live  bool   `json:"live"`
}

// BigResults returns the featured results shown above the results list.
func BigResults(doc *goquery.Document) []Result {
	results := []Result{}
	doc.Find("div.big-results div.result-con").Each(func(_ int, s *goquery.Selection) {
		results = append(results, parseResult(s))
	})
	return results
}

// EventResults groups the results of an event by day.
func EventResults(doc *goquery.Document) ([]ResultDay, error) {
	holder := doc.Find("div.results-holder").First()
	if holder.Length() == 0 {
		return nil, layoutError("no results holder")
	}

	days := []ResultDay{}
	holder.Find("div.results-sublist").Each(func(_ int, sub *goquery.Selection) {
		fields := strings.Fields(text(sub.Find("span.standard-headline")))
		day := ResultDay{Date: normalizeDate(fields), Matches: []Result{}}
		if day.Date == "" {
			day.Date = strings.Join(fields, " ")
		}
		sub.Find("div.result-con").Each(func(_ int, s *goquery.Selection) {
			day.Matches = append(day.Matches, parseResult(s))
		})
		days = append(days, day)
	})
	return days, nil
}

// EventMatches lists live and upcoming matches of an event.
func EventMatches(doc *goquery.Document) []EventMatch {
	matches := []EventMatch{}
	doc.Find("div.liveMatchesSection div.liveMatch").Each(func(_ int, s *goquery.Selection) {
		m := parseEventMatch(s)
		m.Live = true
		matches = append(matches, m)
	})
	doc.Find("div.upcomingMatchesSection").Each(func(_ int, day *goquery.Selection) {
		fields := strings.Fields(text(day.Find("span.matchDayHeadline")))
		date := ""
		if len(fields) > 0 {
			date = fields[len(fields)-1]
		}
		day.Find("div.upcomingMatch").Each(func(_ int, s *goquery.Selection) {
			m := parseEventMatch(s)
			m.Date = date
			matches = append(matches, m)
		})
	})
	return matches
}

func parseResult(s *goquery.Selection) Result {
	r := Result{ID: hrefPart(s.Find("a").First().AttrOr("href", ""), 2)}
	if r.ID == "" {
		r.ID = hrefPart(s.Parent().AttrOr("href", ""), 2)
	}
	teams := s.Find("div.team")
	if teams.Length() >= 2 {
		r.Team1 = strings.TrimSpace(teams.Eq(0).Text())
		r.Team2 = strings.TrimSpace(teams.Eq(1).Text())
	}
	r.Score1, r.Score2 = splitScore(text(s.Find("td.result-score")))
	return r
}

func parseEventMatch(s *goquery.Selection) EventMatch {
	href := s.AttrOr("href", "")
	if href == "" {
		href = s.Find("a").First().AttrOr("href", "")
	}
	m := EventMatch{ID: hrefPart(href, 2), Team1: "TBD", Team2: "TBD"}
	teams := s.Find("div.matchTeamName")
	if teams.Length() >= 2 {
		m.Team1 = strings.TrimSpace(teams.Eq(0).Text())
		m.Team2 = strings.TrimSpace(teams.Eq(1).Text())
	}
	return m
}
