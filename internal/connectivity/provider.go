// Package connectivity reports when the node has a usable network association.
package connectivity

import (
	"context"
	"fmt"
	"net"
	"time"

	"controllerboard/internal/logger"
)

// Provider signals readiness. WaitReady blocks at most timeout.
type Provider interface {
	WaitReady(ctx context.Context, timeout time.Duration) bool
}

// AddrSource lists the interface addresses of the host.
type AddrSource func() ([]net.Addr, error)

const defaultPollInterval = 500 * time.Millisecond

// InterfaceProvider treats the node as associated once a non-loopback IPv4
// address (optionally inside a configured range) is assigned to an interface.
// Association itself is left to the OS network manager; SSID is only logged.
type InterfaceProvider struct {
	ssid     string
	network  *net.IPNet
	addrs    AddrSource
	interval time.Duration
	log      *logger.Logger
}

// NewInterfaceProvider builds a provider. cidr may be empty to accept any address.
func NewInterfaceProvider(ssid, cidr string, log *logger.Logger) (*InterfaceProvider, error) {
	if log == nil {
		log = logger.Nop()
	}
	p := &InterfaceProvider{
		ssid:     ssid,
		addrs:    net.InterfaceAddrs,
		interval: defaultPollInterval,
		log:      log,
	}
	if cidr != "" {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("parse interface range %q: %w", cidr, err)
		}
		p.network = ipNet
	}
	return p, nil
}

// WithAddrSource replaces the address lookup, used by tests.
func (p *InterfaceProvider) WithAddrSource(src AddrSource, interval time.Duration) *InterfaceProvider {
	p.addrs = src
	if interval > 0 {
		p.interval = interval
	}
	return p
}

// WaitReady polls until an address shows up, the timeout elapses or ctx ends.
func (p *InterfaceProvider) WaitReady(ctx context.Context, timeout time.Duration) bool {
	p.log.Infow("waiting_for_network", "ssid", p.ssid, "timeout", timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		if ip, ok := p.findIP(); ok {
			p.log.Infow("network_ready", "ip", ip.String())
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
		}
	}
}

func (p *InterfaceProvider) findIP() (net.IP, bool) {
	addrs, err := p.addrs()
	if err != nil {
		p.log.Debugw("interface_addrs_failed", "err", err)
		return nil, false
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || ip.IsLoopback() {
			continue
		}
		if p.network != nil && !p.network.Contains(ip) {
			continue
		}
		return ip, true
	}
	return nil, false
}
