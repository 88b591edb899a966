package arr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadarr_MonitorMovie_PreservesUnknownFields(t *testing.T) {
	var put map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/movie/7", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":7,"title":"M","tmdbId":42,"monitored":false,"tags":[2],"path":"/movies/M"}`))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&put))
			w.WriteHeader(http.StatusAccepted)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	require.NoError(t, NewRadarr(server.URL, "test-key").MonitorMovie(context.Background(), 7))

	require.NotNil(t, put)
	assert.Equal(t, true, put["monitored"])
	assert.Equal(t, "/movies/M", put["path"])
	assert.Equal(t, []any{float64(2)}, put["tags"])
}

func TestRadarr_SearchMovie(t *testing.T) {
	var cmd map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/command", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cmd))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	require.NoError(t, NewRadarr(server.URL, "test-key").SearchMovie(context.Background(), 7))
	assert.Equal(t, "MoviesSearch", cmd["name"])
	assert.Equal(t, []any{float64(7)}, cmd["movieIds"])
}
