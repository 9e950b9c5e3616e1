package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/superjcd/gohltv/proxy"
	xproxy "golang.org/x/net/proxy"
)

// TransportFactory builds the round tripper for one attempt. e is nil for
// direct requests.
type TransportFactory func(e *proxy.Endpoint) (http.RoundTripper, error)

// NewTransport tunnels http and https endpoints through Transport.Proxy and
// socks5 endpoints through a SOCKS5 dialer.
func NewTransport(dialTimeout time.Duration) TransportFactory {
	return func(e *proxy.Endpoint) (http.RoundTripper, error) {
		dialer := &net.Dialer{Timeout: dialTimeout}
		tr := &http.Transport{
			DialContext:           dialer.DialContext,
			DisableKeepAlives:     true,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		if e == nil {
			tr.Proxy = http.ProxyFromEnvironment
			return tr, nil
		}

		switch e.Protocol {
		case "http", "https":
			tr.Proxy = http.ProxyURL(e.URL())
		case "socks5", "socks5h":
			var auth *xproxy.Auth
			if e.Username != "" {
				auth = &xproxy.Auth{User: e.Username, Password: e.Password}
			}
			socksDialer, err := xproxy.SOCKS5("tcp", e.Addr, auth, dialer)
			if err != nil {
				return nil, err
			}
			if cd, ok := socksDialer.(xproxy.ContextDialer); ok {
				tr.DialContext = cd.DialContext
			} else {
				tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
					return socksDialer.Dial(network, addr)
				}
			}
		default:
			return nil, fmt.Errorf("unsupported proxy protocol %q", e.Protocol)
		}
		return tr, nil
	}
}
