package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/muurk/assistlink/internal/discovery"
	"github.com/muurk/assistlink/internal/logging"
)

// Environment variables read by ApplyEnv
const (
	HostEnvVar           = "ASSISTLINK_HOST"
	PortsEnvVar          = "ASSISTLINK_PORTS"
	ProbeTimeoutEnvVar   = "ASSISTLINK_PROBE_TIMEOUT"
	RequestTimeoutEnvVar = "ASSISTLINK_REQUEST_TIMEOUT"
	MDNSEnvVar           = "ASSISTLINK_MDNS"
	ParallelEnvVar       = "ASSISTLINK_PARALLEL"
	LogLevelEnvVar       = logging.LogLevelEnvVar
)

// DefaultDotEnv is the dotenv file loaded from the working directory
const DefaultDotEnv = ".env"

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment (".env" when none are given). Variables that are already set
// are left alone and missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{DefaultDotEnv}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays ASSISTLINK_* variables from the process environment
func (s *Settings) ApplyEnv() error {
	return s.applyEnv(os.LookupEnv)
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(HostEnvVar); ok {
		s.Host = v
	}

	if v, ok := get(PortsEnvVar); ok {
		ports, err := discovery.ParsePorts(v)
		if err != nil {
			return fmt.Errorf("%s: %w", PortsEnvVar, err)
		}
		s.Ports = ports
	}

	for key, dst := range map[string]*time.Duration{
		ProbeTimeoutEnvVar:   &s.ProbeTimeout,
		RequestTimeoutEnvVar: &s.RequestTimeout,
	} {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	for key, dst := range map[string]*bool{
		MDNSEnvVar:     &s.MDNS,
		ParallelEnvVar: &s.Parallel,
	} {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v, ok := get(LogLevelEnvVar); ok {
		s.LogLevel = v
	}

	return nil
}
