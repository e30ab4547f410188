package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Endpoints served by the assistant backend
const (
	CommandsEndpoint = "/commands"
	ButtonEndpoint   = "/button-pressed/%s/"
)

// ButtonKeys are the physical buttons the backend understands
var ButtonKeys = []string{"A", "B", "UP", "DOWN", "LEFT", "RIGHT"}

// reservedJobNames are routes that exist on the backend but are not jobs
var reservedJobNames = map[string]bool{
	"ping":     true,
	"commands": true,
}

// CommandCatalog is the backend's command list
type CommandCatalog struct {
	ServerURL string
	Entries   map[string]any
}

// Names returns the command names in sorted order
func (c *CommandCatalog) Names() []string {
	names := make([]string, 0, len(c.Entries))
	for name := range c.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns the description of a command if the backend sent one.
// Entries may be a plain string or an object with a "description" field.
func (c *CommandCatalog) Description(name string) string {
	switch v := c.Entries[name].(type) {
	case string:
		return v
	case map[string]any:
		if d, ok := v["description"].(string); ok {
			return d
		}
	}
	return ""
}

// JobResult is the backend's answer to a job execution
type JobResult struct {
	Status    string `json:"status"`
	Result    any    `json:"result"`
	Message   string `json:"message,omitempty"`
	ServerURL string `json:"serverUrl"`
}

// ButtonResult is the backend's answer to a simulated button press
type ButtonResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ServerURL string `json:"serverUrl"`
}

// ListCommands fetches the command catalogue from GET /commands
func (c *Client) ListCommands(ctx context.Context) (*CommandCatalog, error) {
	resp, err := c.Get(ctx, CommandsEndpoint)
	if err != nil {
		return nil, err
	}

	catalog := &CommandCatalog{ServerURL: resp.ServerURL}
	if err := resp.Decode(&catalog.Entries); err != nil {
		return nil, err
	}
	if catalog.Entries == nil {
		catalog.Entries = map[string]any{}
	}

	return catalog, nil
}

// RunJob executes a job with POST /<name>, passing args as query parameters
func (c *Client) RunJob(ctx context.Context, name string, args map[string]string) (*JobResult, error) {
	if err := ValidateJobName(name); err != nil {
		return nil, err
	}

	query := url.Values{}
	for k, v := range args {
		query.Set(k, v)
	}

	resp, err := c.Do(ctx, "/"+url.PathEscape(name), &RequestOptions{
		Method: http.MethodPost,
		Query:  query,
	})
	if err != nil {
		return nil, err
	}

	result := &JobResult{}
	if err := resp.Decode(result); err != nil {
		return nil, err
	}
	result.ServerURL = resp.ServerURL

	if result.Status != "" && result.Status != "success" {
		return result, &Error{
			Type:       ErrTypeServer,
			Message:    fmt.Sprintf("Job %s reported status %q", name, result.Status),
			StatusCode: resp.Status,
			Detail:     result.Message,
			ServerURL:  resp.ServerURL,
		}
	}

	return result, nil
}

// PressButton simulates a press of one of ButtonKeys
func (c *Client) PressButton(ctx context.Context, key string) (*ButtonResult, error) {
	normalized, err := NormalizeButtonKey(key)
	if err != nil {
		return nil, err
	}

	resp, err := c.Get(ctx, fmt.Sprintf(ButtonEndpoint, normalized))
	if err != nil {
		return nil, err
	}

	result := &ButtonResult{}
	if err := resp.Decode(result); err != nil {
		return nil, err
	}
	result.ServerURL = resp.ServerURL

	return result, nil
}

// ValidateJobName rejects names that cannot map to a job route
func ValidateJobName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("job name cannot be empty")
	}
	if strings.ContainsAny(name, "/?# ") {
		return NewValidationError(fmt.Sprintf("invalid job name %q: must not contain '/', '?', '#' or spaces", name))
	}
	if reservedJobNames[strings.ToLower(name)] {
		return NewValidationError(fmt.Sprintf("%q is a built-in endpoint, not a job", name))
	}
	return nil
}

// ParseJobArgs turns "key=value" tokens into job arguments. A later token
// overrides an earlier one with the same key.
func ParseJobArgs(tokens []string) (map[string]string, error) {
	args := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		k, v, ok := strings.Cut(tok, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, NewValidationError(fmt.Sprintf("invalid argument %q: expected key=value", tok))
		}
		args[k] = v
	}
	return args, nil
}

// NormalizeButtonKey upper-cases a key and checks it against ButtonKeys
func NormalizeButtonKey(key string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(key))
	for _, k := range ButtonKeys {
		if k == upper {
			return upper, nil
		}
	}
	return "", NewValidationError(fmt.Sprintf("unknown button %q (valid: %s)", key, strings.Join(ButtonKeys, ", ")))
}
