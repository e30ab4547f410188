package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/assistlink/internal/apiclient"
	"github.com/muurk/assistlink/internal/config"
	"github.com/muurk/assistlink/internal/discovery"
	"github.com/muurk/assistlink/internal/logging"
	"github.com/muurk/assistlink/internal/ui"
	"github.com/muurk/assistlink/internal/version"
)

// Output formats accepted by --format
const (
	formatText  = "text"
	formatPlain = "plain"
	formatJSON  = "json"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	configPath     string
	host           string
	ports          string
	probeTimeout   time.Duration
	requestTimeout time.Duration
	mdns           bool
	parallel       bool
	logLevel       string
	format         string
}

// app is the state resolved before a command runs
type app struct {
	opts     globalOptions
	settings *config.Settings

	// httpClient is shared by discovery and requests (nil: http.DefaultClient)
	httpClient *http.Client

	out    *ui.Printer
	errOut *ui.Printer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "assistlink",
		Short: "Find and talk to a local assistant backend",
		Long: `Assistlink locates a locally running assistant backend and sends it requests.

The backend may be listening on any of a fixed, ordered list of loopback ports
(127.0.0.1:5002, then 127.0.0.1:5004). Every command probes each port's /ping
endpoint in order and uses the first one that answers with a 2xx status.
Nothing is remembered between commands.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "Settings file (default: $XDG_CONFIG_HOME/assistlink/config.yaml)")
	flags.StringVar(&a.opts.host, "host", "", "Host to probe (default: 127.0.0.1)")
	flags.StringVar(&a.opts.ports, "ports", "", "Comma-separated ports to probe, in order (default: 5002,5004)")
	flags.DurationVar(&a.opts.probeTimeout, "probe-timeout", discovery.DefaultProbeTimeout, "Timeout for each /ping probe")
	flags.DurationVar(&a.opts.requestTimeout, "request-timeout", apiclient.DefaultRequestTimeout, "Timeout for each backend request")
	flags.BoolVar(&a.opts.mdns, "mdns", false, "Also probe backends advertised over mDNS")
	flags.BoolVar(&a.opts.parallel, "parallel", false, "Probe all candidates at once (first in list order still wins)")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")
	flags.StringVar(&a.opts.format, "format", formatText, "Output format (text, plain, json)")

	rootCmd.AddCommand(
		newDiscoverCmd(a),
		newStatusCmd(a),
		newPingCmd(a),
		newRequestCmd(a),
		newCommandsCmd(a),
		newRunCmd(a),
		newPressCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// setup resolves settings (defaults < file < .env/environment < flags),
// initializes logging and prepares output.
func (a *app) setup(cmd *cobra.Command) error {
	switch a.opts.format {
	case formatText, formatPlain, formatJSON:
	default:
		return fmt.Errorf("invalid --format %q (expected text, plain or json)", a.opts.format)
	}

	a.plainSetup(cmd)

	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	settings, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	if err := settings.ApplyEnv(); err != nil {
		return err
	}
	if err := a.applyFlags(cmd, settings); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	a.settings = settings

	if err := logging.Initialize(settings.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// applyFlags overlays only the flags the user actually set
func (a *app) applyFlags(cmd *cobra.Command, s *config.Settings) error {
	flags := cmd.Flags()

	if flags.Changed("host") {
		s.Host = a.opts.host
	}
	if flags.Changed("ports") {
		ports, err := discovery.ParsePorts(a.opts.ports)
		if err != nil {
			return fmt.Errorf("--ports: %w", err)
		}
		s.Ports = ports
	}
	if flags.Changed("probe-timeout") {
		s.ProbeTimeout = a.opts.probeTimeout
	}
	if flags.Changed("request-timeout") {
		s.RequestTimeout = a.opts.requestTimeout
	}
	if flags.Changed("mdns") {
		s.MDNS = a.opts.mdns
	}
	if flags.Changed("parallel") {
		s.Parallel = a.opts.parallel
	}
	if flags.Changed("log-level") {
		s.LogLevel = a.opts.logLevel
	}
	return nil
}

func (a *app) client() *apiclient.Client {
	return a.settings.NewClient(a.httpClient)
}

func (a *app) json() bool {
	return a.opts.format == formatJSON
}
