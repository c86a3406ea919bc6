package nsbench

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"

	"github.com/miekg/dns"
	"github.com/quic-go/quic-go/http3"
	"github.com/tantalor93/doh-go/doh"
	"github.com/tantalor93/doq-go/doq"
	"golang.org/x/net/http2"
)

const (
	// UDPTransport represents plain DNS over UDP.
	UDPTransport = "udp"
	// TCPTransport represents plain DNS over TCP.
	TCPTransport = "tcp"
	// TLSTransport represents DNS over TLS.
	TLSTransport = "tcp-tls"
	// QUICTransport represents DNS over QUIC.
	QUICTransport = "quic"

	// HTTP1Proto represents DoH over HTTP/1.1.
	HTTP1Proto = "1.1"
	// HTTP2Proto represents DoH over HTTP/2.
	HTTP2Proto = "2"
	// HTTP3Proto represents DoH over HTTP/3.
	HTTP3Proto = "3"

	// GetHTTPMethod represents DoH via HTTP GET.
	GetHTTPMethod = "get"
	// PostHTTPMethod represents DoH via HTTP POST.
	PostHTTPMethod = "post"
)

// queryFunc is the resolver port of the engine. It performs one resolution
// attempt and either returns a response or an error within the configured
// timeout, it never blocks indefinitely.
type queryFunc func(context.Context, *dns.Msg) (*dns.Msg, error)

// workerResolverFactory returns a factory producing one queryFunc per worker,
// so each worker owns its connection state and never contends with another.
func workerResolverFactory(b *Benchmark) func() queryFunc {
	switch {
	case b.useDoH:
		return dohResolverFactory(b)
	case b.useQuic:
		return doqResolverFactory(b)
	default:
		return dnsResolverFactory(b)
	}
}

func dnsResolverFactory(b *Benchmark) func() queryFunc {
	return func() queryFunc {
		client := plainDNSClient(b)
		var co *dns.Conn
		// the connection is kept across requests and redialed on error,
		// matching the serial request stream of a single worker
		return func(ctx context.Context, msg *dns.Msg) (*dns.Msg, error) {
			if co == nil {
				var err error
				co, err = client.DialContext(ctx, b.Server)
				if err != nil {
					return nil, err
				}
			}
			r, _, err := client.ExchangeWithConnContext(ctx, msg, co)
			if err != nil {
				co.Close()
				co = nil
				return nil, err
			}
			return r, nil
		}
	}
}

func doqResolverFactory(b *Benchmark) func() queryFunc {
	return func() queryFunc {
		h, _, _ := net.SplitHostPort(b.Server)
		client := doq.NewClient(b.Server,
			// nolint:gosec
			doq.WithTLSConfig(&tls.Config{ServerName: h, InsecureSkipVerify: b.Insecure}),
			doq.WithReadTimeout(b.Timeout),
			doq.WithWriteTimeout(b.Timeout),
			doq.WithConnectTimeout(b.Timeout),
		)
		return client.Send
	}
}

func dohResolverFactory(b *Benchmark) func() queryFunc {
	return func() queryFunc {
		var tr http.RoundTripper
		switch b.DohProtocol {
		case HTTP3Proto:
			// nolint:gosec
			tr = &http3.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: b.Insecure}}
		case HTTP2Proto:
			// nolint:gosec
			tr = &http2.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: b.Insecure}}
		case HTTP1Proto:
			fallthrough
		default:
			// nolint:gosec
			tr = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: b.Insecure}}
		}
		c := http.Client{Transport: tr, Timeout: b.Timeout}
		client := doh.NewClient(b.Server, doh.WithHTTPClient(&c))

		switch b.DohMethod {
		case GetHTTPMethod:
			return client.SendViaGet
		case PostHTTPMethod:
			fallthrough
		default:
			return client.SendViaPost
		}
	}
}

func plainDNSClient(b *Benchmark) *dns.Client {
	network := UDPTransport
	if b.TCP {
		network = TCPTransport
	}
	if b.DOT {
		network = TLSTransport
	}

	return &dns.Client{
		Net:          network,
		DialTimeout:  b.Timeout,
		WriteTimeout: b.Timeout,
		ReadTimeout:  b.Timeout,
		Timeout:      b.Timeout,
		// nolint:gosec
		TLSConfig: &tls.Config{InsecureSkipVerify: b.Insecure},
	}
}
