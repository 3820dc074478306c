package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/mxl2mei/pkg/config"
	"github.com/james-see/mxl2mei/pkg/converter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer() *Server {
	return NewServer(config.Default())
}

func uploadRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func duet(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "converter", "testdata", "duet.musicxml"))
	require.NoError(t, err)
	return data
}

func TestHealth(t *testing.T) {
	r := testServer().Router()

	for _, path := range []string{"/health", "/api/v1/health"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "healthy", body["status"])
			assert.Equal(t, "mxl2mei", body["service"])
		})
	}
}

func TestListFormats(t *testing.T) {
	w := httptest.NewRecorder()
	testServer().Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["formats"], "mei")
	assert.Equal(t, converter.GetSupportedConversions(), body["conversions"])
}

func TestRequestID(t *testing.T) {
	r := testServer().Router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	w := httptest.NewRecorder()
	testServer().Router().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/convert/musicxml2mei", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestConvertEndpoints(t *testing.T) {
	tests := []struct {
		path        string
		contentType string
		filename    string
		magic       string
	}{
		{"/api/v1/convert/musicxml2mei", "application/mei+xml", "duet.mei", "<?xml"},
		{"/api/v1/convert/musicxml2midi", "audio/midi", "duet.mid", "MThd"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			testServer().Router().ServeHTTP(w, uploadRequest(t, tt.path, "duet.musicxml", duet(t)))

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, "attachment; filename="+tt.filename, w.Header().Get("Content-Disposition"))
			assert.Equal(t, "0", w.Header().Get("X-Conversion-Warnings"))
			assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte(tt.magic)))
		})
	}
}

func TestConvertCache(t *testing.T) {
	s := testServer()
	r := s.Router()
	data := duet(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/v1/convert/musicxml2mei", "a.musicxml", data))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	first := w.Body.Bytes()

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/v1/convert/musicxml2mei", "b.musicxml", data))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, first, w.Body.Bytes())
	assert.Equal(t, "attachment; filename=b.mei", w.Header().Get("Content-Disposition"))

	// same upload, different target
	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/v1/convert/musicxml2midi", "a.musicxml", data))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, s.cache.Len())
}

func TestConvertCacheDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Server.CacheTTL = -time.Second
	r := NewServer(cfg).Router()
	data := duet(t)

	for _, name := range []string{"a.musicxml", "b.musicxml"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "/api/v1/convert/musicxml2mei", name, data))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	}
}

func TestConvertWarningsHeader(t *testing.T) {
	data := []byte(`<score-partwise><part-list><part-group type="stop" number="3"/><score-part id="P1"/></part-list>
	<part id="P1"><measure number="1"><note><rest/><duration>1</duration></note></measure></part></score-partwise>`)

	w := httptest.NewRecorder()
	testServer().Router().ServeHTTP(w, uploadRequest(t, "/api/v1/convert/musicxml2mei", "w.xml", data))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Conversion-Warnings"))
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		status int
	}{
		{"malformed", []byte("<score-partwise><part"), http.StatusBadRequest},
		{"timewise", []byte(`<score-timewise version="4.0"/>`), http.StatusUnprocessableEntity},
		{"missing part", []byte(`<score-partwise><part-list/><part id="P1"><measure number="1"/></part></score-partwise>`), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			testServer().Router().ServeHTTP(w, uploadRequest(t, "/api/v1/convert/musicxml2mei", "bad.musicxml", tt.data))

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestConvertNoFile(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert/musicxml2mei", nil)
	testServer().Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file uploaded")
}

func TestCacheKey(t *testing.T) {
	a := cacheKey([]byte("score"), converter.FormatMEI)
	assert.Len(t, a, 64)
	assert.Equal(t, a, cacheKey([]byte("score"), converter.FormatMEI))
	assert.NotEqual(t, a, cacheKey([]byte("score"), converter.FormatMIDI))
	assert.NotEqual(t, a, cacheKey([]byte("score2"), converter.FormatMEI))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "song.mei", outputName("song.musicxml", converter.FormatMEI))
	assert.Equal(t, "song.mid", outputName("dir/song.mxl", converter.FormatMIDI))
	assert.Equal(t, "converted.mei", outputName("", converter.FormatMEI))
}
