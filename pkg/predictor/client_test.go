package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictSequence_PostsJSONAndDecodes(t *testing.T) {
	var got sequenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict_sequence", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"variant_sequence":[4,8,15]}`))
	}))
	defer srv.Close()

	pred, err := NewClient(srv.URL+"/", time.Second).PredictSequence(context.Background(), 1, 2, "tv")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, pred.StatusCode)
	assert.Equal(t, []int64{4, 8, 15}, pred.VariantSequence)
	assert.JSONEq(t, `{"variant_sequence":[4,8,15]}`, pred.Body)
	assert.Equal(t, sequenceRequest{UserID: 1, MovieID: 2, DeviceType: "tv"}, got)
}

func TestPredictSequence_DefaultsDeviceType(t *testing.T) {
	var got sequenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"variant_sequence":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).PredictSequence(context.Background(), 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, "desktop", got.DeviceType)
}

func TestPredictSequence_ClientErrorIsReturnedNotFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad input"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for i := 0; i < failureThreshold+1; i++ {
		pred, err := c.PredictSequence(context.Background(), 1, 2, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, pred.StatusCode)
		assert.Nil(t, pred.VariantSequence)
	}
	assert.Equal(t, "closed", c.State())
}

func TestPredictSequence_ServerErrorsOpenBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to generate optimal sequence"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for i := 0; i < failureThreshold; i++ {
		pred, err := c.PredictSequence(context.Background(), 1, 2, "")
		var serverErr *ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
		require.NotNil(t, pred)
		assert.Equal(t, http.StatusInternalServerError, pred.StatusCode)
	}
	assert.Equal(t, "open", c.State())

	_, err := c.PredictSequence(context.Background(), 1, 2, "")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(failureThreshold), calls.Load())
}

func TestPredictSequence_CallerCancellationDoesNotOpenBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"variant_sequence":[1]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i <= failureThreshold; i++ {
		_, err := c.PredictSequence(canceled, 1, 2, "")
		require.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, "closed", c.State())

	pred, err := c.PredictSequence(context.Background(), 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, pred.VariantSequence)
}

func TestPredictSequence_ClientTimeoutStillCountsAsFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, 20*time.Millisecond)
	for i := 0; i < failureThreshold; i++ {
		_, err := c.PredictSequence(context.Background(), 1, 2, "")
		require.Error(t, err)
	}
	assert.Equal(t, "open", c.State())
}

func TestPredictSequence_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).PredictSequence(context.Background(), 1, 2, "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestAlternatives_PassesBodyThrough(t *testing.T) {
	var got alternativesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/alternatives", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`[{"variant_id":3,"score":0.9}]`))
	}))
	defer srv.Close()

	pred, err := NewClient(srv.URL, time.Second).Alternatives(context.Background(), 1, 2, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, `[{"variant_id":3,"score":0.9}]`, pred.Body)
	assert.Equal(t, alternativesRequest{UserID: 1, MovieID: 2, SceneIndex: 4, TopN: 3}, got)
}
