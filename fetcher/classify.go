package fetcher

import (
	"context"
	"errors"
	"mime"
	"net"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/htmlindex"
)

const challengeMarker = "Enable JavaScript and cookies to continue"

// statuses hltv.org (behind cloudflare) answers with when it refuses an IP
var blockedStatuses = map[int]bool{
	http.StatusForbidden:       true,
	http.StatusNotFound:        true,
	http.StatusTooManyRequests: true,
}

func classifyResponse(status int, body string) Outcome {
	if blockedStatuses[status] {
		return Blocked
	}
	if isChallengePage(body) {
		return Blocked
	}
	if status < 200 || status > 299 {
		return NetworkError
	}
	return Success
}

func classifyError(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Timeout
	}
	return NetworkError
}

// isChallengePage detects the cloudflare interstitial served instead of the
// requested page.
func isChallengePage(body string) bool {
	if !strings.Contains(body, "challenge-error-title") && !strings.Contains(body, "Just a moment...") {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return false
	}
	if strings.Contains(doc.Find("#challenge-error-title").Text(), challengeMarker) {
		return true
	}
	return strings.TrimSpace(doc.Find("title").First().Text()) == "Just a moment..."
}

// decodeBody converts body to UTF-8 according to the Content-Type charset.
func decodeBody(body []byte, contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}
	label := params["charset"]
	if label == "" || strings.EqualFold(label, "utf-8") {
		return string(body)
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return string(body)
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(out)
}
