// Package parser turns hltv.org pages into records. Every function is pure:
// it reads a parsed document and never touches the network.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type ParseItem map[string]interface{}

// ErrUnexpectedLayout is returned when a required container is missing,
// usually because the page was not fully served.
var ErrUnexpectedLayout = errors.New("parser: unexpected page layout")

var months = map[string]string{
	"Jan": "1", "Feb": "2", "Mar": "3", "Apr": "4",
	"May": "5", "Jun": "6", "Jul": "7", "Aug": "8",
	"Sep": "9", "Oct": "10", "Nov": "11", "Dec": "12",
}

var trailingNumber = regexp.MustCompile(`(\d+)\s*$`)

func NewDocument(content string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

// ToItems converts a record or a slice of records into storable items.
func ToItems(v interface{}) ([]ParseItem, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	if len(b) > 0 && b[0] == '[' {
		var items []ParseItem
		if err := json.Unmarshal(b, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var item ParseItem
	if err := json.Unmarshal(b, &item); err != nil {
		return nil, err
	}
	return []ParseItem{item}, nil
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.First().Text())
}

// hrefPart returns the i-th "/" separated part of href; negative i counts
// from the end.
func hrefPart(href string, i int) string {
	parts := strings.Split(href, "/")
	if i < 0 {
		i += len(parts)
	}
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

// normalizeDate turns "Mar 21st" (anywhere in fields) into "21-3".
func normalizeDate(fields []string) string {
	for i, f := range fields {
		month, ok := months[f]
		if !ok || i+1 >= len(fields) {
			continue
		}
		day := strings.TrimRight(fields[i+1], "stndrh")
		return day + "-" + month
	}
	return ""
}

func splitScore(s string) (string, string) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

func layoutError(what string) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedLayout, what)
}
