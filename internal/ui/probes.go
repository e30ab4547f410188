package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProbeStatus is the state of one candidate during a discovery pass
type ProbeStatus int

const (
	ProbePending ProbeStatus = iota // not probed yet
	ProbeRunning                    // probe in flight
	ProbeLive                       // answered 2xx
	ProbeDead                       // refused, timed out or non-2xx
	ProbeSkipped                    // never probed, an earlier candidate won
)

func (s ProbeStatus) String() string {
	switch s {
	case ProbeLive:
		return "live"
	case ProbeDead:
		return "dead"
	case ProbeRunning:
		return "running"
	case ProbeSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// ProbeStep is one candidate line of a ProbeReport
type ProbeStep struct {
	Candidate string
	Status    ProbeStatus
	Latency   time.Duration
}

// ProbeReport tracks the candidates of a discovery pass and renders them as a
// progress bar and a step list. Safe for concurrent use by parallel probes.
type ProbeReport struct {
	Label string
	Width int

	mu    sync.Mutex
	steps []ProbeStep
	index map[string]int
	bar   progress.Model
}

// NewProbeReport creates a report over candidates in probe order
func NewProbeReport(label string, candidates []string) *ProbeReport {
	r := &ProbeReport{
		Label: label,
		Width: GetTerminalWidth(),
		steps: make([]ProbeStep, len(candidates)),
		index: make(map[string]int, len(candidates)),
		bar:   progress.New(progress.WithGradient(string(PrimaryColor), string(SecondaryColor)), progress.WithWidth(30)),
	}
	for i, c := range candidates {
		r.steps[i] = ProbeStep{Candidate: c}
		if _, dup := r.index[c]; !dup {
			r.index[c] = i
		}
	}
	return r
}

// Start marks a candidate as in flight. Unknown candidates (e.g., from
// mDNS) are appended.
func (r *ProbeReport) Start(candidate string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[r.lookup(candidate)].Status = ProbeRunning
}

// Finish records the outcome of a candidate's probe
func (r *ProbeReport) Finish(candidate string, live bool, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step := &r.steps[r.lookup(candidate)]
	step.Latency = latency
	if live {
		step.Status = ProbeLive
	} else {
		step.Status = ProbeDead
	}
}

// SkipRemaining marks every candidate that was not probed to completion
func (r *ProbeReport) SkipRemaining() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.steps {
		if r.steps[i].Status == ProbePending || r.steps[i].Status == ProbeRunning {
			r.steps[i].Status = ProbeSkipped
		}
	}
}

// Steps returns a snapshot of the candidate lines
func (r *ProbeReport) Steps() []ProbeStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ProbeStep(nil), r.steps...)
}

// Percent is the share of candidates whose outcome is known
func (r *ProbeReport) Percent() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.percent()
}

func (r *ProbeReport) percent() float64 {
	if len(r.steps) == 0 {
		return 1
	}
	done := 0
	for _, s := range r.steps {
		if s.Status == ProbeLive || s.Status == ProbeDead || s.Status == ProbeSkipped {
			done++
		}
	}
	return float64(done) / float64(len(r.steps))
}

// must hold r.mu
func (r *ProbeReport) lookup(candidate string) int {
	if i, ok := r.index[candidate]; ok {
		return i
	}
	r.steps = append(r.steps, ProbeStep{Candidate: candidate})
	r.index[candidate] = len(r.steps) - 1
	return len(r.steps) - 1
}

// Render returns the progress bar and candidate list
func (r *ProbeReport) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder

	if r.Label != "" {
		b.WriteString(ProgressLabelStyle.Render(r.Label))
		b.WriteString("\n\n")
	}

	percent := r.percent()
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(
		fmt.Sprintf("%s  %3.0f%%", r.bar.ViewAs(percent), percent*100)))
	b.WriteString("\n\n")

	lines := make([]string, 0, len(r.steps))
	for i, step := range r.steps {
		lines = append(lines, renderProbeStep(i+1, len(r.steps), step))
	}
	b.WriteString(strings.Join(lines, "\n"))

	return b.String()
}

// String implements fmt.Stringer
func (r *ProbeReport) String() string {
	return r.Render()
}

func renderProbeStep(n, total int, step ProbeStep) string {
	var marker, note string
	style := StepPendingStyle

	switch step.Status {
	case ProbeLive:
		marker, style = MarkerLive, StepCompleteStyle
		note = "live, " + step.Latency.Round(time.Millisecond).String()
	case ProbeDead:
		marker, style = MarkerDead, ErrorTitleStyle
		note = "no answer"
	case ProbeRunning:
		marker, style = MarkerRunning, StepRunningStyle
	case ProbeSkipped:
		marker, note = MarkerSkipped, "skipped"
	default:
		marker = MarkerPending
	}

	padding := 32 - lipgloss.Width(step.Candidate)
	if padding < 1 {
		padding = 1
	}

	line := fmt.Sprintf("  [%d/%d] %s%s%s", n, total,
		style.Render(step.Candidate), strings.Repeat(" ", padding), style.Render(marker))
	if note != "" {
		line += "  " + StepNoteStyle.Render("("+note+")")
	}
	return line
}
