// Package apiclient sends HTTP requests to a locally running assistant backend.
//
// Every request first runs discovery (see package discovery) and then talks
// to whichever backend answered. Nothing is remembered between calls.
//
// # Usage Example
//
//	client := apiclient.NewClient(nil, nil)
//
//	resp, err := client.Do(ctx, "/commands", nil)
//	if apiclient.IsNoServerError(err) {
//	    log.Fatal("start the backend first")
//	}
//	fmt.Println(resp.ServerURL, resp.Status, resp.Data)
//
// # Timeouts
//
// Each request is bounded by RequestTimeout (10s by default) or by
// RequestOptions.Timeout. The deadline is applied through the request
// context, so it holds for any transport.
//
// # Error Handling
//
// Errors are *Error values with an ErrorType, except JSON decoding failures
// of a successful response, which are returned exactly as encoding/json
// produced them. There is no retry at any layer; calling again re-runs
// discovery from the start.
//
// # Assistant Endpoints
//
// ListCommands, RunJob and PressButton wrap the backend's /commands,
// POST /<job> and /button-pressed/<key>/ routes.
package apiclient
