package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/assistlink/internal/apiclient"
	"github.com/muurk/assistlink/internal/ui"
)

type requestOptions struct {
	method  string
	data    string
	headers []string
	query   []string
	timeout time.Duration
}

func newRequestCmd(a *app) *cobra.Command {
	opts := &requestOptions{}

	cmd := &cobra.Command{
		Use:   "request <endpoint>",
		Short: "Send a raw request to the discovered backend",
		Long: `Discover the backend and send one HTTP request to <endpoint>.

The endpoint is appended to the discovered base URL. A 2xx answer is printed
together with the server that served it; any other status fails with
"Server error: <code> <text>".

With --format json the output is exactly {"data": ..., "serverUrl": ..., "status": ...}.`,
		Example: `  # List the commands the backend knows
  assistlink request /commands

  # Run a job with query arguments
  assistlink request -X POST /weather -q city=Porto

  # Send a JSON body
  assistlink request -X POST /notes -d '{"text":"buy milk"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRequest(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.method, "method", "X", http.MethodGet, "HTTP method")
	flags.StringVarP(&opts.data, "data", "d", "", "Request body (application/json when it is valid JSON, otherwise text/plain unless -H sets Content-Type)")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "Request header as 'Name: value' (repeatable)")
	flags.StringArrayVarP(&opts.query, "query", "q", nil, "Query argument as key=value (repeatable)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Override the request timeout for this call")

	return cmd
}

// build turns the flags into client options
func (o *requestOptions) build() (*apiclient.RequestOptions, error) {
	req := &apiclient.RequestOptions{
		Method:  strings.ToUpper(o.method),
		Timeout: o.timeout,
	}

	if len(o.headers) > 0 {
		req.Header = http.Header{}
		for _, h := range o.headers {
			name, value, ok := strings.Cut(h, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid header %q: expected 'Name: value'", h)
			}
			req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
		}
	}

	if len(o.query) > 0 {
		args, err := apiclient.ParseJobArgs(o.query)
		if err != nil {
			return nil, err
		}
		req.Query = url.Values{}
		for k, v := range args {
			req.Query.Set(k, v)
		}
	}

	if o.data != "" {
		if json.Valid([]byte(o.data)) {
			req.JSON = json.RawMessage(o.data)
		} else {
			req.Body = strings.NewReader(o.data)
			if req.Header.Get("Content-Type") == "" {
				if req.Header == nil {
					req.Header = http.Header{}
				}
				req.Header.Set("Content-Type", "text/plain; charset=utf-8")
			}
		}
	}

	return req, nil
}

func (a *app) runRequest(cmd *cobra.Command, endpoint string, opts *requestOptions) error {
	req, err := opts.build()
	if err != nil {
		return err
	}

	resp, err := a.client().Do(cmd.Context(), endpoint, req)
	if err != nil {
		return a.fail("Request failed", err)
	}

	if a.json() {
		return a.out.PrintJSON(resp)
	}

	a.out.PrintHeader("Request", req.Method+" "+endpoint,
		ui.Param{Key: "Server", Value: resp.ServerURL},
		ui.Param{Key: "Status", Value: fmt.Sprintf("%d %s", resp.Status, http.StatusText(resp.Status))})
	return a.printData(resp.Data)
}

// printData pretty-prints a decoded response body
func (a *app) printData(data any) error {
	if s, ok := data.(string); ok {
		a.out.Println(s)
		return nil
	}
	return a.out.PrintJSON(data)
}

func newCommandsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands the backend offers",
		Long: `Fetch the command catalogue from the discovered backend (GET /commands).

Each command can then be run with 'assistlink run <name>'.`,
		Args: cobra.NoArgs,
		RunE: a.runCommands,
	}
}

func (a *app) runCommands(cmd *cobra.Command, args []string) error {
	catalog, err := a.client().ListCommands(cmd.Context())
	if err != nil {
		return a.fail("Could not list commands", err)
	}

	if a.json() {
		entries := catalog.Entries
		if entries == nil {
			entries = map[string]any{}
		}
		return a.out.PrintJSON(map[string]any{"serverUrl": catalog.ServerURL, "commands": entries})
	}

	names := catalog.Names()
	if len(names) == 0 {
		a.out.PrintWarning("The backend offers no commands", ui.Param{Key: "Server", Value: catalog.ServerURL})
		return nil
	}

	params := make([]ui.Param, 0, len(names))
	for _, name := range names {
		params = append(params, ui.Param{Key: name, Value: catalog.Description(name)})
	}
	a.out.PrintSuccess(fmt.Sprintf("%d commands on %s", len(names), catalog.ServerURL), params...)
	return nil
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <job> [key=value]...",
		Short: "Run a job on the backend",
		Long: `Run a named job (POST /<job>) with optional key=value arguments.

Arguments are sent as query parameters. The job fails when the backend
answers with an error status or reports a non-success status in its body.`,
		Example: `  assistlink run weather
  assistlink run timer minutes=5 label=tea`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runJob,
	}
}

func (a *app) runJob(cmd *cobra.Command, args []string) error {
	jobArgs, err := apiclient.ParseJobArgs(args[1:])
	if err != nil {
		return a.fail("Invalid arguments", err)
	}

	result, err := a.client().RunJob(cmd.Context(), args[0], jobArgs)
	if err != nil {
		return a.fail("Job "+args[0]+" failed", err)
	}

	if a.json() {
		return a.out.PrintJSON(result)
	}

	details := []ui.Param{
		{Key: "Server", Value: result.ServerURL},
		{Key: "Status", Value: result.Status},
	}
	if result.Message != "" {
		details = append(details, ui.Param{Key: "Message", Value: result.Message})
	}
	a.out.PrintSuccess("Job "+args[0]+" completed", details...)
	if result.Result != nil {
		return a.printData(result.Result)
	}
	return nil
}

func newPressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "press <key>",
		Short:     "Simulate a device button press",
		Long:      `Simulate pressing one of the device buttons: A, B, UP, DOWN, LEFT or RIGHT.`,
		Example:   `  assistlink press a`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: apiclient.ButtonKeys,
		RunE:      a.runPress,
	}
}

func (a *app) runPress(cmd *cobra.Command, args []string) error {
	result, err := a.client().PressButton(cmd.Context(), args[0])
	if err != nil {
		return a.fail("Button press failed", err)
	}

	if a.json() {
		return a.out.PrintJSON(result)
	}

	a.out.PrintSuccess(result.Message, ui.Param{Key: "Server", Value: result.ServerURL})
	return nil
}
