package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
)

// ErrNoServerAvailable is matched by errors.Is when discovery found no backend
var ErrNoServerAvailable = errors.New("no server available")

// NoServerMessage is the user-facing text for ErrTypeNoServer errors
const NoServerMessage = "No server is available. Please make sure the server is running."

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNoServer indicates discovery found no live candidate
	ErrTypeNoServer ErrorType = iota
	// ErrTypeServer indicates the backend answered with a non-2xx status
	ErrTypeServer
	// ErrTypeNetwork indicates a transport failure after discovery succeeded
	ErrTypeNetwork
	// ErrTypeTimeout indicates the request deadline passed
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the backend went away between probe and request
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a hostname could not be resolved
	ErrTypeDNS
	// ErrTypeValidation indicates invalid arguments, rejected before any request
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNoServer:
		return "No Server"
	case ErrTypeServer:
		return "Server Error"
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every Client operation except JSON decoding failures,
// which are passed through untouched.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (ErrTypeServer only)
	Status     string    // HTTP status text, e.g. "Internal Server Error"
	Detail     string    // "message" field of a JSON error body, if any
	ServerURL  string    // Discovered base URL, when discovery succeeded
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (caused by: %v)", e.Message, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNoServerAvailable) match no-server errors
func (e *Error) Is(target error) bool {
	return target == ErrNoServerAvailable && e.Type == ErrTypeNoServer
}

// NewNoServerError creates the error returned when discovery finds nothing
func NewNoServerError() *Error {
	return &Error{
		Type:    ErrTypeNoServer,
		Message: NoServerMessage,
	}
}

// NewServerError creates an error for a non-2xx response
func NewServerError(statusCode int, status, serverURL string) *Error {
	return &Error{
		Type:       ErrTypeServer,
		Message:    strings.TrimSpace(fmt.Sprintf("Server error: %d %s", statusCode, status)),
		StatusCode: statusCode,
		Status:     status,
		ServerURL:  serverURL,
	}
}

// NewValidationError creates an error for arguments rejected locally
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// NewNetworkError creates a transport error with automatic classification
func NewNetworkError(message string, err error, serverURL string) *Error {
	classified := ClassifyNetworkError(err)
	classified.Message = message
	classified.ServerURL = serverURL
	return classified
}

// ClassifyNetworkError analyzes a transport error and picks the closest type
func ClassifyNetworkError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &Error{Type: ErrTypeTimeout, Message: "Request timed out", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Type: ErrTypeDNS, Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name), Err: err}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &Error{Type: ErrTypeConnectionRefused, Message: "Server refused connection", Err: err}
	}

	return &Error{Type: ErrTypeNetwork, Message: "Network error occurred", Err: err}
}

func typeOf(err error) (ErrorType, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type, true
	}
	return 0, false
}

// IsNoServerError checks if discovery found no backend
func IsNoServerError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeNoServer
}

// IsServerError checks if the backend answered with a non-2xx status
func IsServerError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeServer
}

// IsNetworkError checks if an error is a transport error (including timeout, refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := typeOf(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused || t == ErrTypeDNS)
}

// IsValidationError checks if an error was raised before any request was sent
func IsValidationError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeValidation
}

// StatusCode returns the HTTP status carried by a server error, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeNoServer:
		return "No server available - is the backend running?"
	case ErrTypeServer:
		if apiErr.Detail != "" {
			return fmt.Sprintf("Server error (HTTP %d): %s", apiErr.StatusCode, apiErr.Detail)
		}
		return fmt.Sprintf("Server error (HTTP %d)", apiErr.StatusCode)
	case ErrTypeTimeout:
		return "Server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Server refused connection - it may have just stopped"
	case ErrTypeDNS:
		return "Cannot resolve server hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	default:
		return apiErr.Message
	}
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeNoServer:
		return strings.Join([]string{
			"No backend answered on any candidate port.",
			"Troubleshooting:",
			"  • Start the assistant backend (it listens on port 5002 or 5004)",
			"  • Check the port list with 'assistlink config show'",
			"  • Run 'assistlink ping http://127.0.0.1:5002' to probe one address",
			"  • Increase --probe-timeout if the backend is slow to answer",
		}, "\n")

	case ErrTypeServer:
		switch {
		case apiErr.StatusCode == 404:
			return "The backend does not know this endpoint. Use 'assistlink commands' to list what it offers."
		case apiErr.StatusCode >= 500:
			return strings.Join([]string{
				fmt.Sprintf("The backend failed while handling the request (HTTP %d).", apiErr.StatusCode),
				"Troubleshooting:",
				"  • Check the backend's own log output",
				"  • The backend may still be starting up - try again in a moment",
			}, "\n")
		default:
			return fmt.Sprintf("The backend rejected the request (HTTP %d). Check the request parameters.", apiErr.StatusCode)
		}

	case ErrTypeTimeout:
		return strings.Join([]string{
			"The backend did not answer in time.",
			"Troubleshooting:",
			"  • Long-running jobs may need a larger --request-timeout",
			"  • Check that the backend is not stuck",
		}, "\n")

	case ErrTypeConnectionRefused:
		return "The backend answered its health check but refused the request. It may be restarting - try again."

	case ErrTypeValidation:
		return "The arguments are invalid. Check the error message for details."

	default:
		return "Network communication failed. Check that the backend is running and reachable."
	}
}
