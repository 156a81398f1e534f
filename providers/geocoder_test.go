package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroclima.app/config"
	apperrors "agroclima.app/errors"
	"agroclima.app/providers/cache"
)

func geocodingConfig(baseURL string) *config.GeocodingConfig {
	return &config.GeocodingConfig{
		BaseURL:        baseURL,
		Language:       "pt",
		TimeoutSeconds: 5,
	}
}

func TestGeocodingClient_Resolve(t *testing.T) {
	t.Run("NarrowQueryMatch", func(t *testing.T) {
		var requests []string
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.URL.Query().Get("name"))
			assert.Equal(t, "5", r.URL.Query().Get("count"))
			assert.Equal(t, "pt", r.URL.Query().Get("language"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))

			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(`{
				"results": [
					{"latitude": -21.1775, "longitude": -47.8103, "country": "Brasil"}
				]
			}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		client := NewGeocodingClient(geocodingConfig(mockServer.URL), nil, time.Minute)
		coords, err := client.Resolve(context.Background(), "Ribeirão Preto", "SP")

		require.NoError(t, err)
		assert.Equal(t, -21.1775, coords.Latitude)
		assert.Equal(t, -47.8103, coords.Longitude)
		require.Len(t, requests, 1)
		assert.Equal(t, "Ribeirão Preto, SP, Brazil", requests[0])
	})

	t.Run("AcceptsEnglishCountrySpelling", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(`{
				"results": [
					{"latitude": 10.0, "longitude": 20.0, "country": "Argentina"},
					{"latitude": -19.75, "longitude": -47.93, "country": "Brazil"}
				]
			}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		client := NewGeocodingClient(geocodingConfig(mockServer.URL), nil, time.Minute)
		coords, err := client.Resolve(context.Background(), "Uberaba", "MG")

		require.NoError(t, err)
		assert.Equal(t, -19.75, coords.Latitude)
	})

	t.Run("EmptyNarrowResultTriggersBroadQuery", func(t *testing.T) {
		var requests []struct{ name, count string }
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, struct{ name, count string }{
				r.URL.Query().Get("name"), r.URL.Query().Get("count"),
			})
			w.Header().Set("Content-Type", "application/json")

			if len(requests) == 1 {
				_, err := w.Write([]byte(`{"results": []}`))
				require.NoError(t, err)
				return
			}
			_, err := w.Write([]byte(`{
				"results": [{"latitude": -15.6, "longitude": -56.1, "country": "Brasil"}]
			}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		client := NewGeocodingClient(geocodingConfig(mockServer.URL), nil, time.Minute)
		coords, err := client.Resolve(context.Background(), "Cuiabá", "MT")

		require.NoError(t, err)
		assert.Equal(t, -15.6, coords.Latitude)

		require.Len(t, requests, 2)
		assert.Equal(t, "Cuiabá, MT, Brazil", requests[0].name)
		assert.Equal(t, "5", requests[0].count)
		assert.Equal(t, "Cuiabá", requests[1].name)
		assert.Equal(t, "10", requests[1].count)
	})

	t.Run("FilteredToEmptyDoesNotBroaden", func(t *testing.T) {
		var requestCount int
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestCount++
			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(`{
				"results": [
					{"latitude": 38.7, "longitude": -9.1, "country": "Portugal"},
					{"latitude": 40.4, "longitude": -3.7, "country": "Espanha"}
				]
			}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		client := NewGeocodingClient(geocodingConfig(mockServer.URL), nil, time.Minute)
		coords, err := client.Resolve(context.Background(), "Santarém", "PA")

		assert.Nil(t, coords)
		assert.Error(t, err)
		assert.Equal(t, 1, requestCount, "a filtered-to-empty narrow result must not retry broadly")

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	})

	t.Run("BothTiersExhausted", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(`{"results": []}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		client := NewGeocodingClient(geocodingConfig(mockServer.URL), nil, time.Minute)
		coords, err := client.Resolve(context.Background(), "Atlantis", "ZZ")

		assert.Nil(t, coords)

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	})

	t.Run("ServerErrorTreatedAsNotFound", func(t *testing.T) {
		var requestCount int
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestCount++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer mockServer.Close()

		client := NewGeocodingClient(geocodingConfig(mockServer.URL), nil, time.Minute)
		coords, err := client.Resolve(context.Background(), "Ribeirão Preto", "SP")

		assert.Nil(t, coords)
		assert.Equal(t, 1, requestCount)

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	})

	t.Run("EmptyCity", func(t *testing.T) {
		client := NewGeocodingClient(geocodingConfig("https://geocoding-api.example.com"), nil, time.Minute)
		coords, err := client.Resolve(context.Background(), "", "SP")

		assert.Nil(t, coords)

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ValidationError, appErr.Type)
	})
}

func TestGeocodingClient_Resolve_Cached(t *testing.T) {
	var requestCount int
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"results": [{"latitude": -21.1775, "longitude": -47.8103, "country": "Brasil"}]
		}`))
		require.NoError(t, err)
	}))
	defer mockServer.Close()

	geocodeCache := cache.NewMemoryCache()
	defer geocodeCache.Stop()

	client := NewGeocodingClient(geocodingConfig(mockServer.URL), geocodeCache, time.Minute)

	first, err := client.Resolve(context.Background(), "Ribeirão Preto", "SP")
	require.NoError(t, err)

	second, err := client.Resolve(context.Background(), "Ribeirão Preto", "SP")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, requestCount, "second resolve must be served from cache")
}
