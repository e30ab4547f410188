package discovery

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateFromEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantOK   bool
		wantHost string
		wantPort int
	}{
		{
			name: "IPv4 backend",
			entry: &zeroconf.ServiceEntry{
				HostName: "assistant.local.",
				Port:     5002,
				AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
			},
			wantOK:   true,
			wantHost: "192.168.4.16",
			wantPort: 5002,
		},
		{
			name: "prefers IPv4 over IPv6",
			entry: &zeroconf.ServiceEntry{
				Port:     5004,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantOK:   true,
			wantHost: "10.0.0.5",
			wantPort: 5004,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				Port:     5002,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantOK:   true,
			wantHost: "fe80::1",
			wantPort: 5002,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				Port: 5002,
			},
		},
		{
			name: "no port",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
		},
		{
			name:  "nil entry",
			entry: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := candidateFromEntry(tt.entry)

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantHost, c.Host)
			assert.Equal(t, tt.wantPort, c.Port)
			assert.Equal(t, "mdns", c.Source)
		})
	}
}

func TestMDNSSource_Candidates(t *testing.T) {
	var gotService, gotDomain string

	src := NewMDNSSource()
	src.Window = 50 * time.Millisecond
	src.browse = func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
		gotService, gotDomain = service, domain
		entries <- &zeroconf.ServiceEntry{Port: 5002, AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")}}
		entries <- &zeroconf.ServiceEntry{Port: 0}
		entries <- &zeroconf.ServiceEntry{Port: 5004, AddrIPv4: []net.IP{net.ParseIP("192.168.1.21")}}
		return nil
	}

	candidates, err := src.Candidates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ServiceType, gotService)
	assert.Equal(t, ServiceDomain, gotDomain)
	require.Len(t, candidates, 2)
	assert.Equal(t, "http://192.168.1.20:5002", candidates[0].URL())
	assert.Equal(t, "http://192.168.1.21:5004", candidates[1].URL())
}

func TestMDNSSource_BrowseError(t *testing.T) {
	src := NewMDNSSource()
	src.browse = func(context.Context, string, string, chan<- *zeroconf.ServiceEntry) error {
		return errors.New("no multicast interface")
	}

	_, err := src.Candidates(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no multicast interface")
}

func TestNewMDNSSource(t *testing.T) {
	src := NewMDNSSource()

	assert.Equal(t, DefaultBrowseWindow, src.Window)
	assert.Equal(t, ServiceType, src.Service)
}
