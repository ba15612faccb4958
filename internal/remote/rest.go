// internal/remote/rest.go
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go_5_vocab_drill/internal/model"
)

// restSource はファイルバックエンドのREST API (バリアントA) クライアントです。
// サーバー側ではエンティティ種別ごとに単一のJSONドキュメントで、書き込みは
// 全置換、パッチは read-modify-write + find-or-create で模倣されます。
type restSource struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewRESTSource(baseURL string, logger *slog.Logger) RemoteDataSource {
	return &restSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (s *restSource) Name() string { return "rest" }

// doJSON はリクエストを投げ、2xxならレスポンスボディを out にデコードします。
// トランスポート異常と非2xxは ErrNetwork、デコード失敗は ErrFormat。
func (s *restSource) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", model.ErrFormat, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", model.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", model.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// エラーボディは任意のプレーンテキスト
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s",
			model.ErrNetwork, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", model.ErrFormat, method, path, err)
	}
	return nil
}

func (s *restSource) FetchWords(ctx context.Context) ([]model.Word, error) {
	var words []model.Word
	if err := s.doJSON(ctx, http.MethodGet, "/words", nil, &words); err != nil {
		return nil, err
	}
	return words, nil
}

func (s *restSource) FetchPhonetics(ctx context.Context) (map[int]string, error) {
	// ドキュメントのキーは単語idの文字列
	var raw map[string]string
	if err := s.doJSON(ctx, http.MethodGet, "/phonetics", nil, &raw); err != nil {
		return nil, err
	}

	out := make(map[int]string, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			s.logger.Warn("Skipping phonetic with non-numeric key", "key", k)
			continue
		}
		out[id] = v
	}
	return out, nil
}

func (s *restSource) FetchUserStatus(ctx context.Context) (map[int]model.Status, error) {
	var doc model.UserStatusDocument
	if err := s.doJSON(ctx, http.MethodGet, "/user-status", nil, &doc); err != nil {
		return nil, err
	}

	out := make(map[int]model.Status, len(doc.Words))
	for _, e := range doc.Words {
		out[e.ID] = e.Status
	}
	return out, nil
}

func (s *restSource) FetchIrregularWords(ctx context.Context) ([]model.IrregularWord, error) {
	var words []model.IrregularWord
	if err := s.doJSON(ctx, http.MethodGet, "/irregular-words", nil, &words); err != nil {
		return nil, err
	}
	return words, nil
}

func (s *restSource) PatchStatus(ctx context.Context, wordID int, patch model.StatusPatch) error {
	path := fmt.Sprintf("/user-status/%d", wordID)
	return s.doJSON(ctx, http.MethodPatch, path, patch, nil)
}

func (s *restSource) BatchUpdate(ctx context.Context, wordUpdates []model.WordUpdate, statusUpdates []model.StatusUpdate) error {
	req := model.BatchUpdateRequest{
		WordUpdates:   wordUpdates,
		StatusUpdates: statusUpdates,
	}
	return s.doJSON(ctx, http.MethodPost, "/batch-update", req, nil)
}

func (s *restSource) SaveWords(ctx context.Context, words []model.Word) error {
	// ドキュメント全置換
	return s.doJSON(ctx, http.MethodPost, "/words", words, nil)
}
