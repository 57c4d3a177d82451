package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/umrah-docs-api/internal/utils"
)

func TestRecoveryReturnsJSON500(t *testing.T) {
	var logs bytes.Buffer
	logger := utils.NewLoggerTo(&logs, "info")

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map write")
	})

	rec := httptest.NewRecorder()
	Recovery(logger)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records/r1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])

	assert.Contains(t, logs.String(), "Handler panic recovered")
	assert.Contains(t, logs.String(), "nil map write")
}

func TestLoggerRecordsStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := utils.NewLoggerTo(&logs, "info")

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    float64
	}{
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{}`))
			},
			want: http.StatusCreated,
		},
		{
			name: "implicit ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			},
			want: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			rec := httptest.NewRecorder()
			Logger(logger)(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/records/r1/photo", nil))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, "HTTP request", entry["msg"])
			assert.Equal(t, http.MethodPost, entry["method"])
			assert.Equal(t, "/api/v1/records/r1/photo", entry["path"])
			assert.Equal(t, tt.want, entry["status"])
			assert.Equal(t, float64(rec.Body.Len()), entry["bytes"])
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	CORS()(next).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/records/r1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	rec = httptest.NewRecorder()
	CORS()(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records/r1", nil))
	assert.True(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
