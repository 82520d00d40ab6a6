package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/unifi2icx/internal/converter"
	"github.com/carlosrabelo/unifi2icx/internal/db"
	"github.com/carlosrabelo/unifi2icx/internal/platform/icx"
)

const sampleExport = `{"expected_system_cfg":["switch.vlan.1.id=10","switch.vlan.1.name=Guest","switch.vlan.2.id=1103","switch.port.3.pvid=10","switch.port.7.status=disabled"]}`

func newTestServer(t *testing.T, withStore bool) (*Server, *db.Store) {
	t.Helper()
	conv := converter.New(icx.NewRenderer(icx.DefaultProfile()), zerolog.Nop())
	if !withStore {
		return NewServer(conv, nil, zerolog.Nop()), nil
	}
	store, err := db.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewServer(conv, store, zerolog.Nop()), store
}

func doRequest(t *testing.T, s *Server, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func multipartRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestConvert_RawBody(t *testing.T) {
	s, _ := newTestServer(t, false)

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(sampleExport)))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Empty(t, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, expectedOutput(t, sampleExport), body)
	assert.Contains(t, body, "vlan 10 name Guest by port\n untagged ethe 1/1/3\n!\n")
}

func TestConvert_MultipartDownload(t *testing.T) {
	s, _ := newTestServer(t, false)

	resp, body := doRequest(t, s, multipartRequest(t, "/convert?download=1", "usw.json", sampleExport))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="ruckus_config.txt"`, resp.Header.Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(body, "!\nstack unit 1\n"))
	assert.True(t, strings.HasSuffix(body, "end\n"))
}

func TestConvert_FormatError(t *testing.T) {
	s, store := newTestServer(t, true)

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body, "invalid JSON format: "), body)
	assert.NotContains(t, body, "stack unit")

	recent, err := store.Recent(5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, body, recent[0].Error)
	assert.Zero(t, recent[0].OutputBytes)
}

func TestConvert_MissingFileField(t *testing.T) {
	s, _ := newTestServer(t, false)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("other", "x"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/convert", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, body := doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "missing file field")
}

func TestHistory(t *testing.T) {
	s, _ := newTestServer(t, true)

	doRequest(t, s, multipartRequest(t, "/convert", "first.json", `{"expected_system_cfg":[]}`))
	doRequest(t, s, multipartRequest(t, "/convert", "second.json", sampleExport))

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/history?limit=1", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history []db.Conversion
	require.NoError(t, json.Unmarshal([]byte(body), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "second.json", history[0].Source)
	assert.Equal(t, 2, history[0].VlanCount)
	assert.Equal(t, 1, history[0].DisabledPorts)
	assert.True(t, history[0].ManagementVlan)
	assert.Len(t, history[0].InputSHA256, 64)
	assert.Positive(t, history[0].OutputBytes)

	_, body = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.NoError(t, json.Unmarshal([]byte(body), &history))
	assert.Len(t, history, 2)
}

func TestHistory_WithoutStore(t *testing.T) {
	s, _ := newTestServer(t, false)

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/history", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", body)
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, true)
	doRequest(t, s, multipartRequest(t, "/convert", "usw-48.json", sampleExport))

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="file"`)
	assert.Contains(t, body, "usw-48.json")
}

func TestIndex_FormConvert(t *testing.T) {
	s, _ := newTestServer(t, false)

	resp, body := doRequest(t, s, multipartRequest(t, "/", "usw.json", sampleExport))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Selected: usw.json")
	assert.Contains(t, body, "vlan 10 name Guest by port")

	_, body = doRequest(t, s, multipartRequest(t, "/", "broken.json", "{"))
	assert.Contains(t, body, "Error converting configuration: invalid JSON format")
	assert.NotContains(t, body, `id="result"`)
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t, false)

	doRequest(t, s, httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(sampleExport)))
	doRequest(t, s, httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(sampleExport)))
	doRequest(t, s, httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader("[")))

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `unifi2icx_conversions_total{result="ok"} 2`)
	assert.Contains(t, body, `unifi2icx_conversions_total{result="format_error"} 1`)
	assert.Contains(t, body, "unifi2icx_conversion_duration_seconds_count 3")
}

func TestMetrics_ServerLocalRegistry(t *testing.T) {
	first, _ := newTestServer(t, false)
	second, _ := newTestServer(t, false)

	doRequest(t, first, httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(sampleExport)))

	_, body := doRequest(t, second, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, body, `unifi2icx_conversions_total{result="ok"} 0`)
}

func expectedOutput(t *testing.T, input string) string {
	t.Helper()
	out, err := converter.New(icx.NewRenderer(icx.DefaultProfile()), zerolog.Nop()).Convert(input)
	require.NoError(t, err)
	return out
}
