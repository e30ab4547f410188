package discovery

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/assistlink/internal/logging"
)

// CandidateSource supplies extra candidates at discovery time (e.g., mDNS)
type CandidateSource interface {
	Candidates(ctx context.Context) ([]Candidate, error)
}

// Finder locates the first live backend among an ordered candidate list.
// A Finder holds no state between calls; every call probes from scratch.
type Finder struct {
	// Candidates are probed in order (default: DefaultCandidates())
	Candidates []Candidate

	// Sources are consulted on each call and appended after Candidates
	Sources []CandidateSource

	// Prober checks one candidate (default: HTTPProber with http.DefaultClient)
	Prober Prober

	// Parallel probes all candidates at once. The earliest live candidate in
	// list order still wins, so the result matches sequential mode whenever
	// backends don't change state mid-pass.
	Parallel bool
}

// NewFinder creates a finder over the default loopback candidates
func NewFinder(client *http.Client) *Finder {
	return &Finder{
		Candidates: DefaultCandidates(),
		Prober:     NewHTTPProber(client),
	}
}

// FindAvailableServer returns the base URL of the first live candidate.
// The second return value is false when no candidate is live.
func (f *Finder) FindAvailableServer(ctx context.Context) (string, bool) {
	start := time.Now()
	candidates := f.candidateList(ctx)

	var (
		serverURL string
		probed    int
	)
	if f.Parallel {
		serverURL, probed = f.findParallel(ctx, candidates)
	} else {
		serverURL, probed = f.findSequential(ctx, candidates)
	}

	logging.LogDiscovery(serverURL, probed, time.Since(start))
	return serverURL, serverURL != ""
}

// IsServerAvailable reports whether any candidate is live
func (f *Finder) IsServerAvailable(ctx context.Context) bool {
	_, ok := f.FindAvailableServer(ctx)
	return ok
}

func (f *Finder) findSequential(ctx context.Context, candidates []Candidate) (string, int) {
	prober := f.prober()

	for i, c := range candidates {
		if ctx.Err() != nil {
			return "", i
		}
		if prober.Probe(ctx, c.URL()) {
			return c.URL(), i + 1
		}
	}

	return "", len(candidates)
}

type probeState int

const (
	probePending probeState = iota
	probeDead
	probeLive
)

func (f *Finder) findParallel(ctx context.Context, candidates []Candidate) (string, int) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prober := f.prober()
	states := make([]probeState, len(candidates))
	winner := -1
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		g.Go(func() error {
			live := prober.Probe(gctx, c.URL())

			mu.Lock()
			defer mu.Unlock()

			states[i] = probeDead
			if live {
				states[i] = probeLive
			}

			if winner == -1 {
				if w := earliestLive(states); w >= 0 {
					winner = w
					cancel()
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if winner < 0 {
		return "", len(candidates)
	}
	return candidates[winner].URL(), len(candidates)
}

// earliestLive returns the index of the first live entry once every entry
// before it is known to be dead, or -1 if that is not yet decided.
func earliestLive(states []probeState) int {
	for i, s := range states {
		switch s {
		case probePending:
			return -1
		case probeLive:
			return i
		}
	}
	return -1
}

func (f *Finder) candidateList(ctx context.Context) []Candidate {
	base := f.Candidates
	if base == nil {
		base = DefaultCandidates()
	}

	list := make([]Candidate, 0, len(base))
	list = append(list, base...)

	seen := make(map[string]bool, len(list))
	for _, c := range list {
		seen[c.URL()] = true
	}

	for _, src := range f.Sources {
		extra, err := src.Candidates(ctx)
		if err != nil {
			logging.Warn("Candidate source failed", zap.Error(err))
			continue
		}
		for _, c := range extra {
			if seen[c.URL()] {
				continue
			}
			seen[c.URL()] = true
			list = append(list, c)
		}
	}

	return list
}

func (f *Finder) prober() Prober {
	if f.Prober == nil {
		return NewHTTPProber(nil)
	}
	return f.Prober
}

// FindAvailableServer runs discovery over the default loopback candidates
func FindAvailableServer(ctx context.Context) (string, bool) {
	return NewFinder(nil).FindAvailableServer(ctx)
}
