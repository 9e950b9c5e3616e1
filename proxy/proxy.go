package proxy

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const DEFAULT_PROTOCOL = "http"

// Endpoint is one proxy server address plus its protocol tag.
type Endpoint struct {
	Protocol string
	Addr     string
	Username string
	Password string
	// Raw is the literal entry the endpoint was loaded from.
	Raw string
}

// ParseEndpoint normalizes `host:port` or `protocol://host:port`, attaching
// protocol when the entry carries none.
func ParseEndpoint(raw, protocol string) (Endpoint, error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Endpoint{}, fmt.Errorf("empty proxy entry")
	}
	if protocol == "" {
		protocol = DEFAULT_PROTOCOL
	}

	normalized := line
	if !strings.Contains(line, "://") {
		normalized = protocol + "://" + line
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse proxy entry %q: %w", line, err)
	}
	if _, _, err := net.SplitHostPort(u.Host); err != nil {
		return Endpoint{}, fmt.Errorf("proxy entry %q: %w", line, err)
	}

	e := Endpoint{
		Protocol: strings.ToLower(u.Scheme),
		Addr:     u.Host,
		Raw:      line,
	}
	if u.User != nil {
		e.Username = u.User.Username()
		e.Password, _ = u.User.Password()
	}
	return e, nil
}

// Key identifies the endpoint inside a pool. Credentials are not part of it.
func (e Endpoint) Key() string {
	return e.Protocol + "://" + e.Addr
}

func (e Endpoint) String() string {
	return e.Key()
}

func (e Endpoint) URL() *url.URL {
	u := &url.URL{Scheme: e.Protocol, Host: e.Addr}
	if e.Username != "" {
		u.User = url.UserPassword(e.Username, e.Password)
	}
	return u
}
