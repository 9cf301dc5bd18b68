package ui

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"datalens/internal/config"
)

const bankCSV = "age;job;y\n25;admin;yes\n40;blue-collar;no\n30;admin;yes\n"

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0"},
		Upload: config.UploadConfig{MaxFileSize: 1 << 20},
		View:   config.ViewConfig{PreviewRows: 5},
	}
	app, err := NewApp(cfg)
	require.NoError(t, err)

	server := httptest.NewServer(app.Router())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return server, &http.Client{Jar: jar}
}

func uploadCSV(t *testing.T, server *httptest.Server, client *http.Client, csv string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("dataset", "bank.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := client.Post(server.URL+"/api/datasets/upload", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func TestUploadFilterSummaryFlow(t *testing.T) {
	server, client := newTestServer(t)

	resp := uploadCSV(t, server, client, bankCSV)
	defer resp.Body.Close()
	// The client follows the redirect to the dashboard.
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	form := url.Values{
		"min_age": {"25"},
		"max_age": {"30"},
		"sel_job": {"admin"},
		"chart":   {"bar"},
		"target":  {"y"},
	}
	applyResp, err := client.PostForm(server.URL+"/api/filters/apply", form)
	require.NoError(t, err)
	applyResp.Body.Close()
	assert.Equal(t, http.StatusOK, applyResp.StatusCode)

	sumResp, err := client.Get(server.URL + "/api/summary")
	require.NoError(t, err)
	defer sumResp.Body.Close()
	require.Equal(t, http.StatusOK, sumResp.StatusCode)

	var summary summaryResponse
	require.NoError(t, json.NewDecoder(sumResp.Body).Decode(&summary))
	assert.Equal(t, "y", summary.Column)
	assert.Equal(t, 3, summary.Original.Total)
	require.Len(t, summary.Filtered.Entries, 1)
	assert.Equal(t, "yes", summary.Filtered.Entries[0].Value)
	assert.InDelta(t, 100.0, summary.Filtered.Entries[0].Percent, 1e-9)

	dl, err := client.Get(server.URL + "/download/filtered.xlsx")
	require.NoError(t, err)
	defer dl.Body.Close()
	require.Equal(t, http.StatusOK, dl.StatusCode)
	assert.Equal(t, xlsxContentType, dl.Header.Get("Content-Type"))

	data, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus the two matching rows")
}

func TestPendingFiltersRequireApply(t *testing.T) {
	server, client := newTestServer(t)

	resp := uploadCSV(t, server, client, bankCSV)
	resp.Body.Close()

	saveResp, err := client.PostForm(server.URL+"/api/filters", url.Values{"sel_job": {"admin"}})
	require.NoError(t, err)
	saveResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, saveResp.StatusCode)

	// Nothing filtered yet: the summary still reflects all three rows.
	sumResp, err := client.Get(server.URL + "/api/summary")
	require.NoError(t, err)
	defer sumResp.Body.Close()

	var summary summaryResponse
	require.NoError(t, json.NewDecoder(sumResp.Body).Decode(&summary))
	assert.Equal(t, 3, summary.Filtered.Total)
}

func TestUploadRejectsUnparseableFile(t *testing.T) {
	server, client := newTestServer(t)

	resp := uploadCSV(t, server, client, string([]byte{0x00, 0xff, 0xfe, 0x01}))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSummaryWithoutSession(t *testing.T) {
	server, client := newTestServer(t)

	resp, err := client.Get(server.URL + "/api/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
