package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codecompare-backend/internal/config"
)

func TestTranscribeUploadsAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transcribe", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "clip.wav", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake audio bytes", string(data))

		json.NewEncoder(w).Encode(map[string]string{"text": "draw a red circle"})
	}))
	defer server.Close()

	svc := NewTranscribeService(config.WhisperConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

	text, err := svc.Transcribe(context.Background(), "clip.wav", strings.NewReader("fake audio bytes"))
	require.NoError(t, err)
	assert.Equal(t, "draw a red circle", text)
}

func TestTranscribeSurfacesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "", "error": "unintelligible audio"})
	}))
	defer server.Close()

	svc := NewTranscribeService(config.WhisperConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

	_, err := svc.Transcribe(context.Background(), "clip.wav", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unintelligible audio")
}

func TestTranscribeDisabledWithoutBaseURL(t *testing.T) {
	svc := NewTranscribeService(config.WhisperConfig{})

	_, err := svc.Transcribe(context.Background(), "clip.wav", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrTranscribeDisabled)
}
