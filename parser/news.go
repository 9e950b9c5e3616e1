package parser

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Posted      string `json:"posted,omitempty"`
	Featured    bool   `json:"featured"`
}

type NewsDay struct {
	Date  string     `json:"date"`
	Items []NewsItem `json:"items"`
}

type NewsOptions struct {
	MaxRegular   int
	OnlyToday    bool
	OnlyFeatured bool
}

// News reads the front page news boxes. The first box is labelled with now,
// the second with the day before and any later box as "older".
func News(doc *goquery.Document, now time.Time, opts NewsOptions) []NewsDay {
	days := []NewsDay{}
	doc.Find("div.standard-box.standard-list").EachWithBreak(func(i int, box *goquery.Selection) bool {
		if opts.OnlyToday && i > 0 {
			return false
		}
		day := NewsDay{Date: newsLabel(now, i), Items: []NewsItem{}}

		box.Find("a.newsline.article").Each(func(_ int, s *goquery.Selection) {
			featured := s.HasClass("featured")
			item := NewsItem{ID: hrefPart(s.AttrOr("href", ""), 2), Featured: featured}
			if featured {
				item.Title = text(s.Find("div.featured-newstext"))
				item.Description = text(s.Find("div.featured-small-newstext"))
				day.Items = append(day.Items, item)
				return
			}
			if opts.OnlyFeatured || (opts.MaxRegular >= 0 && regular(day.Items) >= opts.MaxRegular) {
				return
			}
			item.Title = text(s.Find("div.newstext"))
			item.Posted = text(s.Find("div.newsrecent"))
			day.Items = append(day.Items, item)
		})
		days = append(days, day)
		return true
	})
	return days
}

func newsLabel(now time.Time, i int) string {
	switch i {
	case 0:
		return now.Format("2-1")
	case 1:
		return now.AddDate(0, 0, -1).Format("2-1")
	default:
		return "older"
	}
}

func regular(items []NewsItem) int {
	n := 0
	for _, item := range items {
		if !item.Featured {
			n++
		}
	}
	return n
}
