package infra

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salesorder-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionClient_Extract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/extraction_api", r.URL.Path)

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "order.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.4 test", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Item Description": "Bolt M6", "Qty": 5, "Price/Unit": "0.20"}]`))
	}))
	defer srv.Close()

	c := NewExtractionClient(srv.URL+"/", time.Second)
	rows, err := c.Extract(context.Background(), "order.pdf", []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bolt M6", rows[0]["Item Description"])
	assert.Equal(t, json.Number("5"), rows[0]["Qty"])
}

func TestExtractionClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported layout", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := NewExtractionClient(srv.URL, time.Second).Extract(context.Background(), "a.pdf", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)

	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "unsupported layout")
}

func TestExtractionClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	_, err := NewExtractionClient(srv.URL, time.Second).Extract(context.Background(), "a.pdf", nil)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestMatchingClient_MatchBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/match/batch", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req batchMatchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"Bolt M6", "Mystery part"}, req.Queries)

		_, _ = w.Write([]byte(`{"results": {
			"Bolt M6": [{"match": "Bolt_Steel_M6_20mm_Zinc_Coarse", "score": 0.91}, {"match": "Bolt_Steel_M6_25mm_Zinc_Coarse", "score": 0.7}],
			"Mystery part": []
		}}`))
	}))
	defer srv.Close()

	results, err := NewMatchingClient(srv.URL, time.Second).MatchBatch(context.Background(), []string{"Bolt M6", "Mystery part"})
	require.NoError(t, err)
	require.Len(t, results["Bolt M6"], 2)
	assert.Equal(t, MatchCandidate{Match: "Bolt_Steel_M6_20mm_Zinc_Coarse", Score: 0.91}, results["Bolt M6"][0])
	assert.Empty(t, results["Mystery part"])
}

func TestMatchingClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index rebuilding", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewMatchingClient(srv.URL, time.Second).MatchBatch(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, domain.ErrMatchingFailed)

	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
}
