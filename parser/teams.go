package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type RankedTeam struct {
	ID     string `json:"id"`
	Rank   string `json:"rank"`
	Title  string `json:"title"`
	Points string `json:"points"`
	Change string `json:"change"`
}

type TeamInfo struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Rank         string   `json:"rank"`
	WeeksInTop30 string   `json:"weeks_in_top30"`
	AverageAge   string   `json:"average_age"`
	Coach        string   `json:"coach"`
	Players      []string `json:"players"`
	LastTrophy   string   `json:"last_trophy"`
	Trophies     int      `json:"trophies"`
}

type Player struct {
	ID     string `json:"id"`
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Team   string `json:"team"`
	Maps   string `json:"maps"`
	Rating string `json:"rating"`
}

// TopTeams returns the first max teams of the world ranking.
func TopTeams(doc *goquery.Document, max int) ([]RankedTeam, error) {
	ranked := doc.Find("div.ranked-team.standard-box")
	if ranked.Length() == 0 {
		return nil, layoutError("no ranked teams")
	}

	teams := []RankedTeam{}
	ranked.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if max >= 0 && i >= max {
			return false
		}
		t := RankedTeam{
			ID:     hrefPart(s.Find("a.moreLink").First().AttrOr("href", ""), -2),
			Rank:   strings.TrimPrefix(text(s.Find("span.position")), "#"),
			Title:  text(s.Find("span.name")),
			Change: text(s.Find("div.change")),
		}
		if points := strings.Fields(text(s.Find("span.points"))); len(points) > 0 {
			t.Points = strings.TrimPrefix(points[0], "(")
		}
		teams = append(teams, t)
		return true
	})
	return teams, nil
}

// ParseTeamInfo reads a team profile page.
func ParseTeamInfo(doc *goquery.Document, id, title string) (*TeamInfo, error) {
	stats := doc.Find("div.profile-team-stat")
	if stats.Length() == 0 {
		return nil, layoutError("no team stats")
	}
	info := &TeamInfo{ID: id, Title: title, Players: []string{}}

	doc.Find("span.text-ellipsis.bold").Each(func(_ int, s *goquery.Selection) {
		info.Players = append(info.Players, strings.TrimSpace(s.Text()))
	})

	stats.Each(func(i int, s *goquery.Selection) {
		switch i {
		case 0:
			info.Rank = strings.TrimPrefix(text(s.Find("a")), "#")
		case 1:
			info.WeeksInTop30 = text(s.Find("span.right"))
		case 2:
			info.AverageAge = text(s.Find("span.right"))
		case 3:
			info.Coach = strings.Trim(text(s.Find("span.bold")), "'")
		}
	})

	trophies := doc.Find("div.trophyHolder")
	info.Trophies = trophies.Length()
	if info.Trophies > 0 {
		info.LastTrophy = trophies.First().Find("span").First().AttrOr("title", "")
	}
	return info, nil
}

// BestPlayers returns the first max rows of the player stats table.
func BestPlayers(doc *goquery.Document, max int) ([]Player, error) {
	rows := doc.Find("table.stats-table tbody tr")
	if rows.Length() == 0 {
		rows = doc.Find("tbody tr")
	}
	if rows.Length() == 0 {
		return nil, layoutError("no player rows")
	}

	players := []Player{}
	rows.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if max >= 0 && i >= max {
			return false
		}
		link := s.Find("td.playerCol a").First()
		p := Player{
			ID:     hrefPart(link.AttrOr("href", ""), 3),
			Rank:   i + 1,
			Name:   strings.TrimSpace(link.Text()),
			Team:   s.Find("td.teamCol").First().AttrOr("data-sort", ""),
			Maps:   text(s.Find("td.statsDetail")),
			Rating: text(s.Find("td.ratingCol")),
		}
		players = append(players, p)
		return true
	})
	return players, nil
}
