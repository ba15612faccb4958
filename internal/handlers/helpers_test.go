// internal/handlers/helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"go_5_vocab_drill/internal/model"
	"go_5_vocab_drill/internal/storage"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDocuments(t *testing.T) *storage.Documents {
	t.Helper()
	docs, err := storage.NewDocuments(t.TempDir(), testLogger(t))
	require.NoError(t, err)
	return docs
}

func seedWords(t *testing.T, docs *storage.Documents) []model.Word {
	t.Helper()
	words := []model.Word{
		{
			ID:   1,
			Word: "apple",
			Translations: []model.Translation{
				{Type: "n.", Translation: "苹果"},
				{Type: "n.", Translation: "リンゴ"},
			},
			Status: model.DefaultStatus(),
		},
		{
			ID:     2,
			Word:   "begin",
			Status: model.DefaultStatus(),
		},
	}
	require.NoError(t, docs.ReplaceWords(words))
	return words
}

// doRequest はルータにリクエストを流し、レスポンスレコーダを返します。
func doRequest(t *testing.T, router chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
