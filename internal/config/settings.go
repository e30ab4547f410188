package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/muurk/assistlink/internal/apiclient"
	"github.com/muurk/assistlink/internal/discovery"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// fileMutex serializes writes to the settings file within the process
var fileMutex sync.Mutex

// Settings controls where assistlink looks for the backend and how long it
// waits. Durations are written as Go duration strings ("2s", "1500ms").
type Settings struct {
	Version        int           `yaml:"version"`
	Host           string        `yaml:"host"`
	Ports          []int         `yaml:"ports,flow"`
	ProbePath      string        `yaml:"probe_path"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MDNS           bool          `yaml:"mdns"`
	MDNSWindow     time.Duration `yaml:"mdns_window"`
	Parallel       bool          `yaml:"parallel"`
	LogLevel       string        `yaml:"log_level,omitempty"`
}

// DefaultSettings returns the built-in settings: 127.0.0.1 on 5002 then 5004,
// a 2s probe and a 10s request timeout.
func DefaultSettings() *Settings {
	return &Settings{
		Version:        CurrentVersion,
		Host:           discovery.LoopbackHost,
		Ports:          append([]int(nil), discovery.DefaultPorts...),
		ProbePath:      discovery.DefaultProbePath,
		ProbeTimeout:   discovery.DefaultProbeTimeout,
		RequestTimeout: apiclient.DefaultRequestTimeout,
		MDNSWindow:     discovery.DefaultBrowseWindow,
	}
}

// Load reads the settings file at path (the default path when empty).
// A missing file yields DefaultSettings. Keys absent from the file keep their
// default values.
func Load(path string) (*Settings, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	settings := DefaultSettings()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if settings.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", settings.Version, CurrentVersion)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return settings, nil
}

// Validate checks that the settings describe a usable candidate list
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Host) == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if len(s.Ports) == 0 {
		return fmt.Errorf("ports cannot be empty")
	}
	for _, p := range s.Ports {
		if p < 1 || p > 65535 {
			return fmt.Errorf("port %d out of range (1-65535)", p)
		}
	}
	if !strings.HasPrefix(s.ProbePath, "/") {
		return fmt.Errorf("probe_path must start with '/', got %q", s.ProbePath)
	}
	if s.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive")
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if s.MDNS && s.MDNSWindow <= 0 {
		return fmt.Errorf("mdns_window must be positive when mdns is enabled")
	}
	return nil
}

// Save writes the settings to path (the default path when empty) through a
// temporary file and rename.
func (s *Settings) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	configPath, err := resolvePath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# assistlink configuration
# Candidates are probed in order: the first port whose ` + s.ProbePath + ` answers 2xx wins.
# Environment (ASSISTLINK_HOST, ASSISTLINK_PORTS, ASSISTLINK_LOG_LEVEL) and
# command-line flags override these values.
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// Candidates returns the fixed candidate list
func (s *Settings) Candidates() []discovery.Candidate {
	return discovery.CandidatesFor(s.Host, s.Ports)
}

// NewFinder builds a finder over the configured candidates. A nil httpClient
// means http.DefaultClient.
func (s *Settings) NewFinder(httpClient *http.Client) *discovery.Finder {
	finder := discovery.NewFinder(httpClient)
	finder.Candidates = s.Candidates()
	finder.Parallel = s.Parallel

	prober := discovery.NewHTTPProber(httpClient)
	prober.Timeout = s.ProbeTimeout
	prober.Path = s.ProbePath
	finder.Prober = prober

	if s.MDNS {
		source := discovery.NewMDNSSource()
		source.Window = s.MDNSWindow
		finder.Sources = append(finder.Sources, source)
	}

	return finder
}

// NewClient builds a discovery-backed client from the settings
func (s *Settings) NewClient(httpClient *http.Client) *apiclient.Client {
	client := apiclient.NewClient(s.NewFinder(httpClient), httpClient)
	client.RequestTimeout = s.RequestTimeout
	return client
}
