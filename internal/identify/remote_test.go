package identify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/chorus/internal/capture"
)

func TestRemote_Identify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/identify", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("sample")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "RIFF", string(data))
		assert.Equal(t, "audio/wav", header.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Result{
			Identified: true,
			Track:      &Track{Name: "Song", Artist: "Artist", DurationMs: 1000, PlayOffsetMs: 500},
		})
	}))
	defer srv.Close()

	res, err := NewRemote(srv.URL+"/", 0).Identify(context.Background(), testSample)
	require.NoError(t, err)
	assert.True(t, res.Identified)
	require.NotNil(t, res.Track)
	assert.Equal(t, "Song", res.Track.Name)
	assert.Nil(t, res.Lyrics)
}

func TestRemote_BadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"No audio file provided"}`))
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, 0).Identify(context.Background(), testSample)
	assert.ErrorIs(t, err, ErrNoSample)
}

func TestRemote_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, 0).Identify(context.Background(), testSample)
	var re *RemoteError
	require.True(t, errors.As(err, &re), "err = %v", err)
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
	assert.Equal(t, "Internal server error", re.Message)
}

func TestRemote_EmptySample(t *testing.T) {
	_, err := NewRemote("http://127.0.0.1:0", 0).Identify(context.Background(), capture.Sample{})
	assert.ErrorIs(t, err, ErrNoSample)
}
