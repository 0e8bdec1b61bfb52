package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gubarz/codeappendix/internal/doc"
	"github.com/gubarz/codeappendix/internal/pandoc"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const document = `{"pandoc-api-version":[1,23,1],"meta":{},"blocks":[
  {"t":"Para","c":[{"t":"Str","c":"Hello"}]},
  {"t":"CodeBlock","c":[["",["python"],[]],"print('hello')"]}
]}`

func post(t *testing.T, s *Server, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	s := New(zap.NewNop(), 0)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestFilter(t *testing.T) {
	s := New(zap.NewNop(), 0)
	rec := post(t, s, "/v1/filter?to=html", document)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("X-Code-Appendix-Entries"))

	f, err := pandoc.Read(rec.Body)
	require.NoError(t, err)
	require.Len(t, f.Doc.Blocks, 3)
	app, ok := f.Doc.Blocks[2].(*doc.Div)
	require.True(t, ok)
	assert.True(t, app.Attr.HasClass("code-appendix"))
}

func TestFilter_NoCode(t *testing.T) {
	s := New(zap.NewNop(), 0)
	in := `{"pandoc-api-version":[1,23,1],"meta":{},"blocks":[{"t":"Para","c":[{"t":"Str","c":"Hi"}]}]}`
	rec := post(t, s, "/v1/filter", in)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-Code-Appendix-Entries"))
	assert.JSONEq(t, in, rec.Body.String())
}

func TestFilter_Errors(t *testing.T) {
	tests := []struct {
		name     string
		maxBytes int64
		body     string
		status   int
		message  string
	}{
		{"malformed json", 0, `{"blocks": [`, http.StatusBadRequest, "malformed pandoc JSON"},
		{"missing version", 0, `{"meta":{},"blocks":[]}`, http.StatusBadRequest, "missing pandoc-api-version"},
		{"unsupported version", 0, `{"pandoc-api-version":[2,0],"meta":{},"blocks":[]}`, http.StatusUnprocessableEntity, "unsupported pandoc API version"},
		{"too large", 16, document, http.StatusRequestEntityTooLarge, "exceeds 16 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(zap.NewNop(), tt.maxBytes)
			rec := post(t, s, "/v1/filter", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, errorOf(t, rec), tt.message)
		})
	}
}

func TestFilter_MethodNotAllowed(t *testing.T) {
	s := New(zap.NewNop(), 0)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/filter", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(zap.New(core), 0)

	post(t, s, "/v1/filter", `nope`)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/v1/filter", fields["path"])
	assert.EqualValues(t, http.StatusBadRequest, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}
