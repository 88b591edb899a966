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

func TestSonarr_SeriesByTVDB(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/series", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("tvdbId"))
		_, _ = w.Write([]byte(`[{"id":3,"title":"Show","tvdbId":7,"monitored":true,"seasons":[
			{"seasonNumber":0,"monitored":false},
			{"seasonNumber":1,"monitored":true,"statistics":{"episodeFileCount":10,"episodeCount":10,"percentOfEpisodes":100.0}},
			{"seasonNumber":2,"monitored":true,"statistics":{"episodeFileCount":3,"episodeCount":10,"percentOfEpisodes":30.0}},
			{"seasonNumber":3,"monitored":false}
		]}]`))
	}))
	defer server.Close()

	client := NewSonarr(server.URL, "test-key")
	series, err := client.SeriesByTVDB(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, series.Season(1).Complete())
	assert.False(t, series.Season(2).Complete())
	assert.False(t, series.Season(3).Complete(), "missing statistics means incomplete")
	assert.Nil(t, series.Season(9))
}

func TestSonarr_SeriesByTVDB_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := NewSonarr(server.URL, "test-key").SeriesByTVDB(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSonarr_AddSeries_MonitorsRequestedSeasonsOnly(t *testing.T) {
	var got Series
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":5,"title":"Show","tvdbId":7}`))
	}))
	defer server.Close()

	lookup := Series{
		Title:  "Show",
		TVDBID: 7,
		Seasons: []Season{
			{SeasonNumber: 1, Monitored: true},
			{SeasonNumber: 2, Monitored: true},
			{SeasonNumber: 3, Monitored: true},
		},
	}

	added, err := NewSonarr(server.URL, "test-key").AddSeries(context.Background(), lookup, 2, "/tv", []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), added.ID)

	assert.True(t, got.Monitored)
	assert.True(t, got.SeasonFolder)
	assert.Equal(t, 2, got.QualityProfileID)
	assert.Equal(t, 1, got.LanguageProfileID)
	assert.Equal(t, "/tv", got.RootFolderPath)
	assert.True(t, got.Season(1).Monitored)
	assert.False(t, got.Season(2).Monitored)
	assert.True(t, got.Season(3).Monitored)
	require.NotNil(t, got.AddOptions)
	assert.True(t, got.AddOptions.IgnoreEpisodesWithFiles)
	assert.True(t, got.AddOptions.SearchForMissingEpisodes)

	assert.True(t, lookup.Seasons[1].Monitored, "caller's seasons must not be mutated")
}

func TestSonarr_MonitorSeasons_PreservesUnknownFields(t *testing.T) {
	var put map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/series/3", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":3,"title":"Show","monitored":false,"tags":[4],
				"seasons":[{"seasonNumber":1,"monitored":false},{"seasonNumber":2,"monitored":false}]}`))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&put))
			w.WriteHeader(http.StatusAccepted)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	err := NewSonarr(server.URL, "test-key").MonitorSeasons(context.Background(), 3, []int{2})
	require.NoError(t, err)

	require.NotNil(t, put)
	assert.Equal(t, true, put["monitored"])
	assert.Equal(t, []any{float64(4)}, put["tags"])
	seasons := put["seasons"].([]any)
	assert.Equal(t, false, seasons[0].(map[string]any)["monitored"])
	assert.Equal(t, true, seasons[1].(map[string]any)["monitored"])
}

func TestSonarr_SearchSeason(t *testing.T) {
	var cmd map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/command", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cmd))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1,"name":"SeasonSearch","status":"queued"}`))
	}))
	defer server.Close()

	require.NoError(t, NewSonarr(server.URL, "test-key").SearchSeason(context.Background(), 3, 2))
	assert.Equal(t, "SeasonSearch", cmd["name"])
	assert.Equal(t, float64(3), cmd["seriesId"])
	assert.Equal(t, float64(2), cmd["seasonNumber"])
}
