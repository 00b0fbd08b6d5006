package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/addrnorm/pkg/address"
	"github.com/hazyhaar/addrnorm/pkg/journal"
	"github.com/hazyhaar/addrnorm/pkg/pipeline"
	"github.com/hazyhaar/addrnorm/pkg/tagger"
)

func newTestService(t *testing.T, cfg Config, j *journal.Journal) *Service {
	t.Helper()
	p := pipeline.New(address.Default(), tagger.NewRules(address.DefaultTables()), pipeline.WithWorkers(2))
	cfg.Version = "test"
	return NewService(p, cfg, j, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type rawEnvelope struct {
	Data json.RawMessage `json:"data"`
	Meta Meta            `json:"meta"`
}

func TestHandleParse(t *testing.T) {
	h := NewRouter(newTestService(t, Config{}, nil), nil)
	rec := do(t, h, http.MethodPost, "/api/address/parse/",
		`{"address": "200 N. Spring St, Los Angeles, California 90012", "@id": 12}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env rawEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, Meta{Version: "test", Status: "OK"}, env.Meta)
	assert.JSONEq(t, `{
		"addr:housenumber": "200",
		"addr:street": "North Spring Street",
		"addr:city": "Los Angeles",
		"addr:state": "CA",
		"addr:postcode": "90012",
		"@removed": [],
		"@id": 12
	}`, string(env.Data))
}

func TestHandleParseUnparseable(t *testing.T) {
	h := NewRouter(newTestService(t, Config{}, nil), nil)
	rec := do(t, h, http.MethodPost, "/api/address/parse/", `{"address": "Reno", "@id": "a"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var env rawEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.JSONEq(t, `{"address":"Reno","@id":"a","error":"Unparseable"}`, string(env.Data))
}

func TestHandleParseBadJSON(t *testing.T) {
	h := NewRouter(newTestService(t, Config{}, nil), nil)
	rec := do(t, h, http.MethodPost, "/api/address/parse/", `{"address": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON body")
}

func TestHandleParseTooLong(t *testing.T) {
	h := NewRouter(newTestService(t, Config{}, nil), nil)
	body, _ := json.Marshal(AddressInput{Address: strings.Repeat("a", 5000)})
	rec := do(t, h, http.MethodPost, "/api/address/parse/", string(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBatch(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	h := NewRouter(newTestService(t, Config{}, j), nil)
	rec := do(t, h, http.MethodPost, "/api/address/batch/", `[
		{"address": "89 Broadway, New York, NY 10006", "@id": 1},
		{"address": "Reno", "@id": 2},
		{"address": "345 MAPLE RD, COUNTRYSIDE, PA 24680-0198", "@id": "three"}
	]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 3)
	assert.Equal(t, "Broadway", env.Data[0]["addr:street"])
	assert.Equal(t, Unparseable, env.Data[1]["error"])
	assert.Equal(t, "Maple Road", env.Data[2]["addr:street"])
	assert.Equal(t, "three", env.Data[2]["@id"])

	runs, err := j.List(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "http", runs[0].Source)
	assert.Equal(t, journal.StatusDone, runs[0].Status)
	assert.Equal(t, 3, runs[0].Stats.Items)
	assert.Equal(t, 1, runs[0].Stats.Unparseable)
}

func TestHandleBatchDuplicateIDs(t *testing.T) {
	h := NewRouter(newTestService(t, Config{}, nil), nil)
	rec := do(t, h, http.MethodPost, "/api/address/batch/", `[{"address": "a", "@id": 1}, {"address": "b", "@id": 1}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Ids [@id] are not unique."}`, rec.Body.String())

	// Missing ids all count as 0.
	rec = do(t, h, http.MethodPost, "/api/address/batch/", `[{"address": "a"}, {"address": "b"}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/address/batch/", `[{"address": "a", "@id": 1}, {"address": "b", "@id": "1"}]`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleBatchLimit(t *testing.T) {
	h := NewRouter(newTestService(t, Config{BatchLimit: 2}, nil), nil)
	rec := do(t, h, http.MethodPost, "/api/address/batch/",
		`[{"address": "a", "@id": 1}, {"address": "b", "@id": 2}, {"address": "c", "@id": 3}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "More than 2 items. Submit request in smaller batches.")
}

func TestHandleMetaAndHealth(t *testing.T) {
	h := NewRouter(newTestService(t, Config{}, nil), nil)

	rec := do(t, h, http.MethodGet, "/api/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"test","status":"OK"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/address/parse/", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleLabels(t *testing.T) {
	h := NewRouter(newTestService(t, Config{}, nil), nil)
	rec := do(t, h, http.MethodGet, "/api/labels", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp vocabularyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Labels, len(address.Labels))
	for _, l := range resp.Labels {
		if l.Label == address.PlaceName {
			assert.Equal(t, "addr:city", l.OSMKey)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := NewRouter(newTestService(t, Config{}, nil), nil)

	rec := do(t, h, http.MethodGet, "/api/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	h := NewRouter(newTestService(t, Config{RateLimit: 0.001, RateBurst: 1}, nil), nil)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/api/health", "").Code)
}

func TestCORS(t *testing.T) {
	h := NewRouter(newTestService(t, Config{Origins: []string{"https://maps.example"}}, nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://maps.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://maps.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://other.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/address/parse/", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
