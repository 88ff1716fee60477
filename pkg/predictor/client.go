// Package predictor talks to the external sequence-prediction service.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	breakerName      = "predictor"
	failureThreshold = 5
	openTimeout      = 30 * time.Second
	maxBodyBytes     = 1 << 20
)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("prediction service unavailable")

// errCallerGone marks requests abandoned because the caller's context ended.
// They say nothing about the service's health and do not count against it.
var errCallerGone = errors.New("request abandoned by caller")

// ServerError is a 5xx answer from the prediction service.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("prediction service returned %d: %s", e.StatusCode, e.Body)
}

// Prediction is the raw answer of the service. VariantSequence is filled
// when a 2xx body carried a variant_sequence array.
type Prediction struct {
	StatusCode      int     `json:"status_code"`
	Body            string  `json:"-"`
	VariantSequence []int64 `json:"variant_sequence,omitempty"`
}

type sequenceRequest struct {
	UserID     int64  `json:"user_id"`
	MovieID    int64  `json:"movie_id"`
	DeviceType string `json:"device_type"`
}

type alternativesRequest struct {
	UserID     int64 `json:"user_id"`
	MovieID    int64 `json:"movie_id"`
	SceneIndex int   `json:"scene_index"`
	TopN       int   `json:"top_n"`
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*Prediction]
}

// NewClient creates a client for the service at baseURL. timeout bounds each
// request including reading the body.
func NewClient(baseURL string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker %s changed from %s to %s.", name, from, to)
		},
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*Prediction](settings),
	}
}

// State reports the breaker state for health output.
func (c *Client) State() string {
	return c.breaker.State().String()
}

// PredictSequence asks for the optimal variant sequence of a movie. An empty
// deviceType lets the service pick its default.
func (c *Client) PredictSequence(ctx context.Context, userID, movieID int64, deviceType string) (*Prediction, error) {
	if deviceType == "" {
		deviceType = "desktop"
	}
	return c.post(ctx, "/predict_sequence", sequenceRequest{UserID: userID, MovieID: movieID, DeviceType: deviceType}, true)
}

// Alternatives asks for the topN highest-scoring variants of one scene. The
// body is returned verbatim.
func (c *Client) Alternatives(ctx context.Context, userID, movieID int64, sceneIndex, topN int) (*Prediction, error) {
	if topN <= 0 {
		topN = 3
	}
	req := alternativesRequest{UserID: userID, MovieID: movieID, SceneIndex: sceneIndex, TopN: topN}
	return c.post(ctx, "/alternatives", req, false)
}

func (c *Client) post(ctx context.Context, path string, payload any, decodeSequence bool) (*Prediction, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	pred, err := c.breaker.Execute(func() (*Prediction, error) {
		return c.do(ctx, path, body, decodeSequence)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.Debugf("Skipping call to %s: %v", path, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return pred, err
}

func (c *Client) do(ctx context.Context, path string, body []byte, decodeSequence bool) (*Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// The caller hung up; the client's own Timeout does not cancel ctx.
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debugf("Prediction request to %s abandoned: %v", path, ctxErr)
			return nil, fmt.Errorf("%w: %w", errCallerGone, ctxErr)
		}
		log.Errorf("Prediction request to %s failed: %v", path, err)
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, ctxErr)
		}
		return nil, fmt.Errorf("failed to read prediction response: %w", err)
	}

	pred := &Prediction{StatusCode: resp.StatusCode, Body: string(raw)}
	log.Debugf("Prediction service answered %s with %d.", path, resp.StatusCode)

	if resp.StatusCode >= http.StatusInternalServerError {
		return pred, &ServerError{StatusCode: resp.StatusCode, Body: pred.Body}
	}
	if decodeSequence && resp.StatusCode < http.StatusMultipleChoices {
		var decoded struct {
			VariantSequence []int64 `json:"variant_sequence"`
		}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return pred, fmt.Errorf("failed to decode variant sequence: %w", err)
		}
		pred.VariantSequence = decoded.VariantSequence
	}
	return pred, nil
}
