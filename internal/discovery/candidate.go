package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	// LoopbackHost is the host every default candidate is built from
	LoopbackHost = "127.0.0.1"

	// Scheme is the URL scheme used for candidates
	Scheme = "http"
)

// DefaultPorts is the ordered port list probed during discovery.
// Earlier entries win when more than one backend is running.
var DefaultPorts = []int{5002, 5004}

// Candidate is one address a backend may be listening on
type Candidate struct {
	// Host is an IP address or hostname (e.g., "127.0.0.1")
	Host string

	// Port is the TCP port (e.g., 5002)
	Port int

	// Source records where the candidate came from ("static" or "mdns")
	Source string
}

// URL returns the base URL for the candidate (e.g., "http://127.0.0.1:5002")
func (c Candidate) URL() string {
	return fmt.Sprintf("%s://%s", Scheme, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)))
}

// String returns a human-readable representation of the candidate
func (c Candidate) String() string {
	if c.Source == "" {
		return c.URL()
	}
	return fmt.Sprintf("%s (%s)", c.URL(), c.Source)
}

// CandidatesFor builds the ordered candidate list for a host and port list
func CandidatesFor(host string, ports []int) []Candidate {
	candidates := make([]Candidate, 0, len(ports))
	for _, port := range ports {
		candidates = append(candidates, Candidate{Host: host, Port: port, Source: "static"})
	}
	return candidates
}

// DefaultCandidates returns the fixed loopback candidates in probe order
func DefaultCandidates() []Candidate {
	return CandidatesFor(LoopbackHost, DefaultPorts)
}

// ParsePorts parses a comma-separated port list such as "5002,5004".
// Order is preserved and duplicates are dropped.
func ParsePorts(s string) ([]int, error) {
	var ports []int
	seen := make(map[int]bool)

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		port, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q: %w", part, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("port %d out of range (1-65535)", port)
		}

		if seen[port] {
			continue
		}
		seen[port] = true
		ports = append(ports, port)
	}

	if len(ports) == 0 {
		return nil, fmt.Errorf("no ports in %q", s)
	}

	return ports, nil
}
