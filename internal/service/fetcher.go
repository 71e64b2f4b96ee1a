package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
	"time"

	"controllerboard/internal/logger"
	"controllerboard/internal/models"
)

// Resolver is satisfied by *net.Resolver.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Dialer is satisfied by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// FetchConfig addresses the command server.
type FetchConfig struct {
	Host       string
	Port       int
	URL        string // absolute request target, e.g. http://host/actions/eightport/
	UserAgent  string
	BufferSize int
	IOTimeout  time.Duration
}

// Request renders the fixed HTTP/1.0 request.
func (c FetchConfig) Request() string {
	return "GET " + c.URL + " HTTP/1.0\r\n" +
		"Host: " + c.Host + "\r\n" +
		"User-Agent: " + c.UserAgent + "\r\n" +
		"\r\n"
}

const truncationProbeWait = 2 * time.Second

// HTTPFetcher speaks the request over a raw TCP stream so the buffer bound and
// the failure taxonomy stay under its control.
type HTTPFetcher struct {
	cfg      FetchConfig
	request  []byte
	resolver Resolver
	dialer   Dialer
	log      *logger.Logger
}

func NewHTTPFetcher(cfg FetchConfig, resolver Resolver, dialer Dialer, log *logger.Logger) *HTTPFetcher {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &HTTPFetcher{
		cfg:      cfg,
		request:  []byte(cfg.Request()),
		resolver: resolver,
		dialer:   dialer,
		log:      log,
	}
}

// Fetch performs one request and returns everything the server sent, up to the
// buffer size. The connection is closed on every path.
func (f *HTTPFetcher) Fetch(ctx context.Context) (models.RawResponse, error) {
	if f.cfg.IOTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.IOTimeout)
		defer cancel()
	}

	ip, err := f.resolve(ctx)
	if err != nil {
		return models.RawResponse{}, err
	}
	f.log.Infow("dns_lookup_succeeded", "host", f.cfg.Host, "ip", ip.String())

	addr := net.JoinHostPort(ip.String(), strconv.Itoa(f.cfg.Port))
	conn, err := f.dialer.DialContext(ctx, "tcp4", addr)
	if err != nil {
		return models.RawResponse{}, classifyDialError(addr, err)
	}
	defer func() { _ = conn.Close() }()
	f.log.Infow("connected", "addr", addr)

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	n, err := conn.Write(f.request)
	if err != nil {
		return models.RawResponse{}, fmt.Errorf("%w: %v", ErrSend, err)
	}
	if n < len(f.request) {
		return models.RawResponse{}, fmt.Errorf("%w: wrote %d of %d bytes", ErrSend, n, len(f.request))
	}

	resp, lastErr := readBounded(conn, f.cfg.BufferSize)
	f.log.Infow("done_reading", "bytes", len(resp.Data), "truncated", resp.Truncated, "last_err", lastErr)
	return resp, nil
}

func (f *HTTPFetcher) resolve(ctx context.Context) (net.IP, error) {
	addrs, err := f.resolver.LookupIPAddr(ctx, f.cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAddressResolution, f.cfg.Host, err)
	}
	for _, a := range addrs {
		if ip4 := a.IP.To4(); ip4 != nil {
			return ip4, nil
		}
	}
	return nil, fmt.Errorf("%w: %s: no IPv4 address", ErrAddressResolution, f.cfg.Host)
}

// readBounded reads until EOF, an error, or capacity bytes. EOF and errors both
// just end the loop; the last error is returned for logging only.
func readBounded(conn net.Conn, capacity int) (models.RawResponse, error) {
	buf := make([]byte, capacity)
	total := 0
	var lastErr error
	for total < capacity {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			lastErr = err
			break
		}
		if n == 0 {
			break
		}
	}
	resp := models.RawResponse{Data: buf[:total]}
	if total == capacity {
		resp.Truncated = peerHasMore(conn)
	}
	return resp, lastErr
}

// peerHasMore probes one byte past a full buffer so an exact fit is not
// reported as truncated.
func peerHasMore(conn net.Conn) bool {
	_ = conn.SetReadDeadline(time.Now().Add(truncationProbeWait))
	var one [1]byte
	n, _ := conn.Read(one[:])
	return n > 0
}

func classifyDialError(addr string, err error) error {
	for _, errno := range []syscall.Errno{syscall.EMFILE, syscall.ENFILE, syscall.ENOBUFS, syscall.ENOMEM} {
		if errors.Is(err, errno) {
			return fmt.Errorf("%w: %s: %v", ErrSocketAllocation, addr, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrConnection, addr, err)
}
