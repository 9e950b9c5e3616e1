package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type LiveMatch struct {
	ID    string   `json:"id"`
	Team1 string   `json:"team1"`
	Team2 string   `json:"team2"`
	Maps  []string `json:"maps"`
	Stars string   `json:"stars"`
}

type UpcomingMatch struct {
	ID     string `json:"id"`
	Team1  string `json:"team1"`
	Team2  string `json:"team2"`
	Time   string `json:"time"`
	Maps   string `json:"maps"`
	Rating int    `json:"rating"`
	Event  string `json:"event"`
}

type MatchDay struct {
	Date    string          `json:"date"`
	Matches []UpcomingMatch `json:"matches"`
}

type MapResult struct {
	Name       string `json:"name"`
	Team1Score string `json:"team1_score"`
	Team2Score string `json:"team2_score"`
}

type PlayerStat struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	KD     string `json:"kd"`
	ADR    string `json:"adr"`
	Rating string `json:"rating"`
}

type MatchInfo struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Score1 string       `json:"score1"`
	Score2 string       `json:"score2"`
	Maps   []MapResult  `json:"maps"`
	Stats  []PlayerStat `json:"stats,omitempty"`
}

const MATCH_OVER = "Match over"

var nickname = regexp.MustCompile(`'(.*?)'`)

// LiveMatches lists the matches currently played. A page without a live
// section yields an empty list.
func LiveMatches(doc *goquery.Document) []LiveMatch {
	matches := []LiveMatch{}
	container := doc.Find("div.liveMatchesContainer").First()
	if container.Length() == 0 {
		return matches
	}

	container.Find("div.liveMatch-container").Each(func(_ int, s *goquery.Selection) {
		teams := s.Find("div.matchTeamName.text-ellipsis")
		if teams.Length() < 2 {
			return
		}
		m := LiveMatch{
			ID:    hrefPart(s.Find("a").First().AttrOr("href", ""), 2),
			Team1: strings.TrimSpace(teams.Eq(0).Text()),
			Team2: strings.TrimSpace(teams.Eq(1).Text()),
			Stars: s.AttrOr("stars", ""),
			Maps:  []string{},
		}
		if maps := s.AttrOr("data-maps", ""); maps != "" {
			m.Maps = strings.Split(maps, ",")
		}
		matches = append(matches, m)
	})
	return matches
}

// UpcomingMatches returns the first days match days, keeping matches rated
// at least minRating stars.
func UpcomingMatches(doc *goquery.Document, days, minRating int) ([]MatchDay, error) {
	sections := doc.Find("div.upcomingMatchesSection")
	if sections.Length() == 0 {
		return nil, layoutError("no upcoming matches section")
	}

	result := []MatchDay{}
	sections.EachWithBreak(func(i int, day *goquery.Selection) bool {
		if i >= days {
			return false
		}
		fields := strings.Fields(day.Find("span.matchDayHeadline").First().Text())
		md := MatchDay{Matches: []UpcomingMatch{}}
		if len(fields) > 0 {
			md.Date = fields[len(fields)-1]
		}

		day.Find("div.upcomingMatch").Each(func(_ int, s *goquery.Selection) {
			rating, _ := strconv.Atoi(s.AttrOr("stars", "0"))
			if rating < minRating {
				return
			}
			m := UpcomingMatch{
				ID:     hrefPart(s.Find("a").First().AttrOr("href", ""), 2),
				Team1:  "TBD",
				Team2:  "TBD",
				Time:   text(s.Find("div.matchTime")),
				Rating: rating,
			}
			if meta := text(s.Find("div.matchMeta")); meta != "" {
				m.Maps = meta[len(meta)-1:]
			}
			teams := s.Find("div.matchTeamName.text-ellipsis")
			if teams.Length() >= 2 {
				m.Team1 = strings.TrimSpace(teams.Eq(0).Text())
				m.Team2 = strings.TrimSpace(teams.Eq(1).Text())
			}
			if m.Event = text(s.Find("div.matchEventName")); m.Event == "" {
				m.Event = text(s.Find("span.line-clamp-3"))
			}
			md.Matches = append(md.Matches, m)
		})
		result = append(result, md)
		return true
	})
	return result, nil
}

// ParseMatchInfo reads a single match page. Player stats are only filled in once
// the match is over.
func ParseMatchInfo(doc *goquery.Document, id string) (*MatchInfo, error) {
	countdown := doc.Find("div.countdown").First()
	if countdown.Length() == 0 {
		return nil, layoutError("no match countdown")
	}
	info := &MatchInfo{ID: id, Status: strings.TrimSpace(countdown.Text()), Maps: []MapResult{}}

	if info.Status == MATCH_OVER {
		teams := doc.Find("div.teamsBox div.team")
		if teams.Length() >= 2 {
			info.Score1 = lastNumber(teams.Eq(0).Text())
			info.Score2 = lastNumber(teams.Eq(1).Text())
		}
	}

	doc.Find("div.mapholder").Each(func(_ int, s *goquery.Selection) {
		m := MapResult{Name: text(s.Find("div.mapname")), Team1Score: "0", Team2Score: "0"}
		scores := s.Find("div.results-team-score")
		if scores.Length() >= 2 {
			m.Team1Score = strings.TrimSpace(scores.Eq(0).Text())
			m.Team2Score = strings.TrimSpace(scores.Eq(1).Text())
		}
		info.Maps = append(info.Maps, m)
	})

	if info.Status != MATCH_OVER {
		return info, nil
	}
	doc.Find("table.table.totalstats").EachWithBreak(func(t int, table *goquery.Selection) bool {
		if t >= 2 {
			return false
		}
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			stat := PlayerStat{
				ID:     hrefPart(row.Find("a.flagAlign").First().AttrOr("href", ""), 2),
				Name:   text(row.Find("div.statsPlayerName")),
				KD:     text(row.Find("td.kd")),
				ADR:    text(row.Find("td.adr")),
				Rating: text(row.Find("td.rating")),
			}
			if m := nickname.FindStringSubmatch(stat.Name); m != nil {
				stat.Name = m[1]
			}
			info.Stats = append(info.Stats, stat)
		})
		return true
	})
	return info, nil
}

func lastNumber(s string) string {
	if m := trailingNumber.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
