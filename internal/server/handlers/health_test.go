package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vidhub/pkg/api"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		db           Pinger
		name         string
		wantStatus   int
		wantHealth   string
		wantDatabase string
	}{
		{
			name:         "database ok",
			db:           pingerFunc(func(context.Context) error { return nil }),
			wantStatus:   http.StatusOK,
			wantHealth:   "ok",
			wantDatabase: "ok",
		},
		{
			name:         "database down",
			db:           pingerFunc(func(context.Context) error { return errors.New("closed") }),
			wantStatus:   http.StatusServiceUnavailable,
			wantHealth:   "degraded",
			wantDatabase: "unavailable",
		},
		{
			name:         "no database configured",
			wantStatus:   http.StatusOK,
			wantHealth:   "ok",
			wantDatabase: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(setupTestLogger(), tt.db, "")

			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			w := httptest.NewRecorder()

			handler.Health(w, req)

			resp := w.Result()
			defer func() {
				err := resp.Body.Close()
				assert.NoError(t, err)
			}()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var body api.Response[api.HealthResponse]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			assert.Equal(t, tt.wantStatus, body.StatusCode)
			assert.Equal(t, tt.wantHealth, body.Data.Status)
			assert.Equal(t, tt.wantDatabase, body.Data.Database)
			assert.Equal(t, "dev", body.Data.Version)
		})
	}
}
