package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanetTerpGetRating(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/professor", r.URL.Path)
		assert.Equal(t, "Ada Lovelace", r.URL.Query().Get("name"))
		_, _ = w.Write([]byte(`{"name": "Ada Lovelace", "average_rating": 4.3125}`))
	}))
	defer srv.Close()

	client := NewPlanetTerp(srv.URL, time.Second, nil, nil)
	rating, ok, err := client.GetRating(context.Background(), "Ada Lovelace")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4.3125, rating)
}

func TestPlanetTerpUnknownProfessor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "professor not found"}`))
	}))
	defer srv.Close()

	client := NewPlanetTerp(srv.URL, time.Second, nil, nil)
	rating, ok, err := client.GetRating(context.Background(), "Nobody Known")
	require.NoError(t, err, "an unknown professor is not a transport failure")
	assert.False(t, ok)
	assert.Zero(t, rating)
}

func TestPlanetTerpNullRating(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "New Professor", "average_rating": null}`))
	}))
	defer srv.Close()

	client := NewPlanetTerp(srv.URL, time.Second, nil, nil)
	_, ok, err := client.GetRating(context.Background(), "New Professor")
	require.NoError(t, err)
	assert.False(t, ok, "a professor with no reviews has no rating")
}

func TestPlanetTerpMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	client := NewPlanetTerp(srv.URL, time.Second, nil, nil)
	_, _, err := client.GetRating(context.Background(), "Ada Lovelace")
	assert.Error(t, err)
}
