package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type assistant backends advertise
	ServiceType = "_assistant._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultBrowseWindow is how long an mDNS browse collects answers
	DefaultBrowseWindow = 1500 * time.Millisecond
)

// browseFunc matches zeroconf.Resolver.Browse so tests can replace it
type browseFunc func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

// MDNSSource yields candidates from mDNS service advertisements
type MDNSSource struct {
	// Window is the maximum time to wait for advertisements
	Window time.Duration

	// Service is the service type to browse (default: ServiceType)
	Service string

	browse browseFunc
}

// NewMDNSSource creates an mDNS candidate source with default settings
func NewMDNSSource() *MDNSSource {
	return &MDNSSource{
		Window:  DefaultBrowseWindow,
		Service: ServiceType,
	}
}

// Candidates browses for advertised backends until the window closes.
// Candidates are returned in the order their advertisements arrived.
func (s *MDNSSource) Candidates(ctx context.Context) ([]Candidate, error) {
	window := s.Window
	if window <= 0 {
		window = DefaultBrowseWindow
	}
	service := s.Service
	if service == "" {
		service = ServiceType
	}

	ctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	browse := s.browse
	if browse == nil {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
		}
		browse = resolver.Browse
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu    sync.Mutex
		found []Candidate
	)

	go func() {
		for entry := range entries {
			if c, ok := candidateFromEntry(entry); ok {
				mu.Lock()
				found = append(found, c)
				mu.Unlock()
			}
		}
	}()

	if err := browse(ctx, service, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]Candidate(nil), found...), nil
}

// candidateFromEntry converts a service entry to a candidate, preferring IPv4
func candidateFromEntry(entry *zeroconf.ServiceEntry) (Candidate, bool) {
	if entry == nil || entry.Port <= 0 {
		return Candidate{}, false
	}

	var host string
	if len(entry.AddrIPv4) > 0 {
		host = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		host = entry.AddrIPv6[0].String()
	}

	if host == "" {
		return Candidate{}, false
	}

	return Candidate{Host: host, Port: entry.Port, Source: "mdns"}, true
}
