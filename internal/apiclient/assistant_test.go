package apiclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommands(t *testing.T) {
	router := newHostRouter()
	router.routes["127.0.0.1:5002"] = backend(map[string]http.HandlerFunc{
		"/commands": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"weather": "Current weather for a city",
				"timer":   map[string]any{"description": "Start a countdown"},
				"lights":  map[string]any{"args": []string{"room"}},
			})
		},
	})

	catalog, err := newTestClient(router).ListCommands(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5002", catalog.ServerURL)
	assert.Equal(t, []string{"lights", "timer", "weather"}, catalog.Names())
	assert.Equal(t, "Current weather for a city", catalog.Description("weather"))
	assert.Equal(t, "Start a countdown", catalog.Description("timer"))
	assert.Empty(t, catalog.Description("lights"))
	assert.Empty(t, catalog.Description("missing"))
}

func TestListCommands_NullBody(t *testing.T) {
	router := newHostRouter()
	router.routes["127.0.0.1:5002"] = backend(map[string]http.HandlerFunc{
		"/commands": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("null"))
		},
	})

	catalog, err := newTestClient(router).ListCommands(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, catalog.Entries)
	assert.Empty(t, catalog.Names())
}

func TestListCommands_NoServer(t *testing.T) {
	_, err := newTestClient(newHostRouter()).ListCommands(context.Background())

	require.Error(t, err)
	assert.True(t, IsNoServerError(err))
}

func TestRunJob_Success(t *testing.T) {
	var gotMethod, gotPath, gotCity string

	router := newHostRouter()
	router.routes["127.0.0.1:5004"] = backend(map[string]http.HandlerFunc{
		"/weather": func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotCity = r.URL.Query().Get("city")
			writeJSON(w, http.StatusOK, map[string]any{"status": "success", "result": "Sunny, 21C"})
		},
	})

	result, err := newTestClient(router).RunJob(context.Background(), "weather", map[string]string{"city": "Porto"})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/weather", gotPath)
	assert.Equal(t, "Porto", gotCity)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "Sunny, 21C", result.Result)
	assert.Equal(t, "http://127.0.0.1:5004", result.ServerURL)
}

func TestRunJob_NotFound(t *testing.T) {
	router := newHostRouter()
	router.routes["127.0.0.1:5002"] = backend(map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"status": "error", "message": "Job not found"})
		},
	})

	result, err := newTestClient(router).RunJob(context.Background(), "nosuchjob", nil)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsServerError(err))
	assert.Equal(t, 404, StatusCode(err))
	assert.Contains(t, err.Error(), "Job not found")
}

func TestRunJob_ErrorStatusInSuccessfulResponse(t *testing.T) {
	router := newHostRouter()
	router.routes["127.0.0.1:5002"] = backend(map[string]http.HandlerFunc{
		"/flaky": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "error", "message": "device busy"})
		},
	})

	result, err := newTestClient(router).RunJob(context.Background(), "flaky", nil)

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "error", result.Status)
	assert.True(t, IsServerError(err))
	assert.Equal(t, `Job flaky reported status "error": device busy`, err.Error())
}

func TestRunJob_InvalidNameSendsNothing(t *testing.T) {
	router := newHostRouter()
	client := newTestClient(router)

	for _, name := range []string{"", "  ", "a/b", "what?", "two words", "ping", "Commands"} {
		_, err := client.RunJob(context.Background(), name, nil)
		assert.True(t, IsValidationError(err), "name %q", name)
	}

	assert.Empty(t, router.Calls())
}

func TestPressButton(t *testing.T) {
	var gotPath string

	router := newHostRouter()
	router.routes["127.0.0.1:5002"] = backend(map[string]http.HandlerFunc{
		"/button-pressed/": func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Button UP pressed"})
		},
	})

	result, err := newTestClient(router).PressButton(context.Background(), " up ")

	require.NoError(t, err)
	assert.Equal(t, "/button-pressed/UP/", gotPath)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "Button UP pressed", result.Message)
	assert.Equal(t, "http://127.0.0.1:5002", result.ServerURL)
}

func TestPressButton_UnknownKey(t *testing.T) {
	router := newHostRouter()

	_, err := newTestClient(router).PressButton(context.Background(), "START")

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "A, B, UP, DOWN, LEFT, RIGHT")
	assert.Empty(t, router.Calls())
}

func TestNormalizeButtonKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a", "A", false},
		{"B", "B", false},
		{"Left", "LEFT", false},
		{"right\n", "RIGHT", false},
		{"", "", true},
		{"select", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeButtonKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJobArgs(t *testing.T) {
	args, err := ParseJobArgs([]string{"city=Porto", "units=metric", "note=a=b", "city=Lisbon", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"city": "Lisbon", "units": "metric", "note": "a=b", "empty": ""}, args)

	args, err = ParseJobArgs(nil)
	require.NoError(t, err)
	assert.Empty(t, args)

	for _, bad := range []string{"city", "=Porto", " =x"} {
		_, err := ParseJobArgs([]string{bad})
		assert.True(t, IsValidationError(err), "token %q", bad)
	}
}
