// Package acrcloud provides a client for the ACRCloud audio recognition API.
package acrcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
)

const (
	identifyPath     = "/v1/identify"
	dataType         = "audio"
	audioType        = "recorded" // tuned for noisy environments
	signatureVersion = "1"

	// DefaultHost is used when no host is configured.
	DefaultHost = "identify-us-west-2.acrcloud.com"

	defaultSampleDuration = 12 * time.Second
)

// TransportError reports a failure to reach the provider or to read its reply.
// Callers retry on it rather than treating it as "no match".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("acrcloud %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Config holds the credentials and endpoint of an ACRCloud project.
type Config struct {
	Host         string
	AccessKey    string
	AccessSecret string
	Timeout      time.Duration
}

// Client is an ACRCloud identification client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
	secret     string
	now        func() time.Time
}

// New creates a new ACRCloud client.
func New(cfg Config) *Client {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://" + host,
		accessKey:  cfg.AccessKey,
		secret:     cfg.AccessSecret,
		now:        time.Now,
	}
}

// Identify submits an audio sample and returns the first candidate, if any.
// Provider-level failures (non-zero status code, empty metadata) are reported
// as an unidentified Match, never as an error.
func (c *Client) Identify(ctx context.Context, sample []byte) (*Match, error) {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	signature := Sign(http.MethodPost, identifyPath, c.accessKey, c.secret, dataType, signatureVersion, timestamp)

	body, contentType, err := buildForm(sample, map[string]string{
		"access_key":        c.accessKey,
		"data_type":         dataType,
		"audio_type":        audioType,
		"signature_version": signatureVersion,
		"signature":         signature,
		"timestamp":         timestamp,
		"sample_bytes":      strconv.Itoa(len(sample)),
	})
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+identifyPath, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "http request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Op: "http request", Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	var result identifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}

	if result.Status.Code != 0 {
		logger.Debugf(ctx, "acrcloud status code %d: %s", result.Status.Code, result.Status.Msg)
		return &Match{Message: result.Status.Msg}, nil
	}

	if result.Metadata == nil || len(result.Metadata.Music) == 0 {
		return &Match{Message: "No music found"}, nil
	}

	// The first candidate is taken as the best match.
	m := result.Metadata.Music[0]
	logger.Debugf(ctx, "acrcloud identified %q (score %v)", m.Title, m.Score)
	return &Match{Identified: true, Track: m.toTrack()}, nil
}

func (m music) toTrack() Track {
	t := Track{
		Title:          m.Title,
		Album:          m.Album.Name,
		Duration:       time.Duration(m.DurationMs) * time.Millisecond,
		PlayOffset:     time.Duration(m.PlayOffsetMs) * time.Millisecond,
		SampleDuration: time.Duration(m.SampleEndTimeOffsetMs) * time.Millisecond,
		Score:          m.Score,
	}
	if len(m.Artists) > 0 {
		t.Artist = m.Artists[0].Name
	}
	if t.SampleDuration <= 0 {
		t.SampleDuration = defaultSampleDuration
	}
	return t
}

// buildForm encodes the sample and signed fields as multipart/form-data.
func buildForm(sample []byte, fields map[string]string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("sample", "sample.wav")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(sample); err != nil {
		return nil, "", err
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
