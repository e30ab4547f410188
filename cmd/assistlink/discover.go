package main

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/assistlink/internal/apiclient"
	"github.com/muurk/assistlink/internal/discovery"
	"github.com/muurk/assistlink/internal/ui"
)

// reportingProber records each probe of a discovery pass in a ProbeReport
type reportingProber struct {
	inner  discovery.Prober
	report *ui.ProbeReport
}

func (p reportingProber) Probe(ctx context.Context, baseURL string) bool {
	p.report.Start(baseURL)
	start := time.Now()
	live := p.inner.Probe(ctx, baseURL)

	// Probes cut short because an earlier candidate already won stay
	// unresolved and end up as skipped
	if !live && ctx.Err() != nil {
		return false
	}
	p.report.Finish(baseURL, live, time.Since(start))
	return live
}

type candidateOutput struct {
	URL       string `json:"url"`
	Source    string `json:"source"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs,omitempty"`
}

type discoverOutput struct {
	Available  bool              `json:"available"`
	ServerURL  string            `json:"serverUrl,omitempty"`
	Candidates []candidateOutput `json:"candidates"`
}

func newDiscoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Find the first live backend",
		Long: `Probe each candidate address in order and print the first live one.

Probing stops at the first candidate whose /ping answers with a 2xx status;
later candidates are reported as skipped. Exits with status 1 when no
candidate answers.`,
		Example: `  # Probe the default ports
  assistlink discover

  # Probe custom ports, all at once
  assistlink discover --ports 8000,8001 --parallel

  # Include backends advertised over mDNS
  assistlink discover --mdns --format json`,
		Args: cobra.NoArgs,
		RunE: a.runDiscover,
	}
}

func (a *app) runDiscover(cmd *cobra.Command, args []string) error {
	finder := a.settings.NewFinder(a.httpClient)

	urls := make([]string, len(finder.Candidates))
	for i, c := range finder.Candidates {
		urls[i] = c.URL()
	}
	report := ui.NewProbeReport("Probing candidates...", urls)
	finder.Prober = reportingProber{inner: finder.Prober, report: report}

	serverURL, ok := finder.FindAvailableServer(cmd.Context())
	report.SkipRemaining()

	if a.json() {
		out := discoverOutput{Available: ok, ServerURL: serverURL}
		for _, s := range report.Steps() {
			out.Candidates = append(out.Candidates, candidateOutput{
				URL:       s.Candidate,
				Source:    candidateSource(finder.Candidates, s.Candidate),
				Status:    s.Status.String(),
				LatencyMs: s.Latency.Milliseconds(),
			})
		}
		if err := a.out.PrintJSON(out); err != nil {
			return err
		}
		if !ok {
			return &reportedError{err: apiclient.NewNoServerError()}
		}
		return nil
	}

	a.out.PrintProbes(report)

	if !ok {
		return a.fail("No server available", apiclient.NewNoServerError())
	}
	a.out.PrintSuccess("Server discovered", ui.Param{Key: "URL", Value: serverURL})
	return nil
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether any backend is live",
		Long: `Report whether any candidate backend is live.

Exits with status 0 when a backend answers and 1 otherwise, so it can be used
in scripts:

  assistlink status --format plain && assistlink run weather`,
		Args: cobra.NoArgs,
		RunE: a.runStatus,
	}
}

func (a *app) runStatus(cmd *cobra.Command, args []string) error {
	serverURL, ok := a.client().FindAvailableServer(cmd.Context())

	if a.json() {
		if err := a.out.PrintJSON(discoverOutput{Available: ok, ServerURL: serverURL}); err != nil {
			return err
		}
	} else if ok {
		a.out.PrintSuccess("Server available", ui.Param{Key: "URL", Value: serverURL})
	} else {
		a.out.PrintWarning("No server available",
			ui.Param{Key: "Probed", Value: candidateList(a.settings.Candidates())})
	}

	if !ok {
		return &reportedError{err: apiclient.NewNoServerError()}
	}
	return nil
}

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping <url>",
		Short: "Probe a single address",
		Long: `Probe one base URL's health endpoint, bypassing the candidate list.

Uses the configured probe path and timeout. Exits with status 1 when the
address is not live.`,
		Example: `  assistlink ping http://127.0.0.1:5002
  assistlink ping http://192.168.1.40:5004 --probe-timeout 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: a.runPing,
	}
}

func (a *app) runPing(cmd *cobra.Command, args []string) error {
	prober := discovery.NewHTTPProber(a.httpClient)
	prober.Timeout = a.settings.ProbeTimeout
	prober.Path = a.settings.ProbePath

	start := time.Now()
	live := prober.Probe(cmd.Context(), args[0])
	latency := time.Since(start).Round(time.Millisecond)

	if a.json() {
		status := "dead"
		if live {
			status = "live"
		}
		if err := a.out.PrintJSON(candidateOutput{URL: args[0], Status: status, LatencyMs: latency.Milliseconds()}); err != nil {
			return err
		}
	} else if live {
		a.out.PrintSuccess("Live", ui.Param{Key: "URL", Value: args[0]}, ui.Param{Key: "Latency", Value: latency.String()})
	} else {
		a.out.PrintWarning("Not live",
			ui.Param{Key: "URL", Value: args[0]},
			ui.Param{Key: "Timeout", Value: prober.Timeout.String()})
	}

	if !live {
		return &reportedError{err: errors.New(args[0] + " is not live")}
	}
	return nil
}

func candidateSource(static []discovery.Candidate, url string) string {
	for _, c := range static {
		if c.URL() == url {
			return c.Source
		}
	}
	return "mdns"
}

func candidateList(candidates []discovery.Candidate) string {
	s := ""
	for i, c := range candidates {
		if i > 0 {
			s += ", "
		}
		s += c.Host + ":" + strconv.Itoa(c.Port)
	}
	return s
}
