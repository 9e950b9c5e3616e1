package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Event struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Ongoing   bool   `json:"ongoing"`
}

type Group struct {
	Name  string   `json:"name"`
	Teams []string `json:"teams"`
}

type EventInfo struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	PrizePool string  `json:"prize_pool"`
	Teams     string  `json:"teams"`
	Location  string  `json:"location"`
	Groups    []Group `json:"groups"`
}

// Events lists ongoing events followed by upcoming big events, at most max
// of the latter. A max below zero means no limit.
func Events(doc *goquery.Document, max int) []Event {
	events := []Event{}
	doc.Find("div.tab-content#TODAY a.ongoing-event").Each(func(_ int, s *goquery.Selection) {
		e := Event{
			ID:      hrefPart(s.AttrOr("href", ""), -2),
			Title:   text(s.Find("div.text-ellipsis")),
			Ongoing: true,
		}
		e.StartDate, e.EndDate = eventDates(s)
		events = append(events, e)
	})

	doc.Find("div.big-events a.big-event").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if max >= 0 && i >= max {
			return false
		}
		e := Event{
			ID:    hrefPart(s.AttrOr("href", ""), -2),
			Title: text(s.Find("div.big-event-name")),
		}
		e.StartDate, e.EndDate = eventDates(s)
		events = append(events, e)
		return true
	})
	return events
}

func eventDates(s *goquery.Selection) (string, string) {
	spans := s.Find("span[data-time-format]")
	var start, end string
	if spans.Length() > 0 {
		start = normalizeDate(strings.Fields(spans.Eq(0).Text()))
	}
	if spans.Length() > 1 {
		end = normalizeDate(strings.Fields(spans.Eq(1).Text()))
	}
	return start, end
}

// ParseEventInfo reads an event overview page.
func ParseEventInfo(doc *goquery.Document, id, title string) (*EventInfo, error) {
	dates := doc.Find("td.eventdate span")
	if dates.Length() == 0 {
		return nil, layoutError("no event dates")
	}
	info := &EventInfo{
		ID:        id,
		Title:     title,
		StartDate: normalizeDate(strings.Fields(dates.Eq(0).Text())),
		PrizePool: text(doc.Find("td.prizepool")),
		Teams:     text(doc.Find("td.teamsNumber")),
		Location:  strings.Join(strings.Fields(text(doc.Find("td.location"))), " "),
		Groups:    []Group{},
	}
	if dates.Length() > 1 {
		info.EndDate = normalizeDate(strings.Fields(dates.Eq(1).Text()))
	}

	doc.Find("div.groups-container table.table.standard-box").Each(func(_ int, s *goquery.Selection) {
		g := Group{Name: text(s.Find("td.table-header.group-name")), Teams: []string{}}
		s.Find("div.text-ellipsis a").Each(func(_ int, a *goquery.Selection) {
			g.Teams = append(g.Teams, strings.TrimSpace(a.Text()))
		})
		info.Groups = append(info.Groups, g)
	})
	return info, nil
}
