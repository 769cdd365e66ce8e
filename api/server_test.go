package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscape-quote/internal/catalog"
	"landscape-quote/internal/pipeline"
	coreapi "landscape-quote/pkg/api"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	f, err := pipeline.NewFactory(pipeline.FactoryConfig{Mode: pipeline.ModeMock})
	require.NoError(t, err)
	return NewServer(f.Build(), catalog.Default(), nil, nil)
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestQuoteEndpoint(t *testing.T) {
	s := testServer(t)

	body, _ := json.Marshal(QuoteRequest{
		Message: "I need 45 sq ft of triple ground mulch and 3 feet of metal edging",
	})
	rec := httptest.NewRecorder()
	s.handleQuote(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quote", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var result coreapi.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	require.NotNil(t, result.FinalResult)
	assert.Equal(t, 75.75, result.FinalResult.Totals.TotalCost)

	// The trace is stripped unless the caller asked for it.
	assert.Empty(t, result.Debug)
}

func TestQuoteEndpointDebugOptIn(t *testing.T) {
	s := testServer(t)

	body, _ := json.Marshal(QuoteRequest{
		Message:      "45 sq ft of triple ground mulch",
		IncludeDebug: true,
	})
	rec := httptest.NewRecorder()
	s.handleQuote(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quote", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var result coreapi.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Debug)
}

func TestQuoteEndpointRejectsGet(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleQuote(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestQuoteEndpointRejectsBadJSON(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleQuote(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogEndpoint(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleCatalog(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "triple ground mulch")
}
