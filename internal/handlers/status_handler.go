// internal/handlers/status_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_vocab_drill/internal/model"
	"go_5_vocab_drill/internal/storage"
	"go_5_vocab_drill/internal/webutil"
)

type StatusHandler struct {
	docs   *storage.Documents
	logger *slog.Logger
}

func NewStatusHandler(docs *storage.Documents, logger *slog.Logger) *StatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusHandler{
		docs:   docs,
		logger: logger,
	}
}

// PatchStatusResponse は PATCH /api/user-status/{id} の成功レスポンスです。
type PatchStatusResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	WordID  int          `json:"wordId"`
	Status  model.Status `json:"status"`
}

// GetUserStatus は学習状態ドキュメント全体を取得するためのハンドラ
func (h *StatusHandler) GetUserStatus(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetUserStatus"))

	doc, err := h.docs.UserStatus()
	if err != nil {
		logger.Error("Error reading user status document", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if doc.Words == nil {
		doc.Words = []model.UserStatusEntry{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, doc, logger)
}

// PatchStatus は1語の学習状態にパッチを適用するためのハンドラ。
// エントリが無ければデフォルト状態を作ってから適用します。
func (h *StatusHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchStatus"))

	wordID, err := webutil.URLParamInt(r, "word_id")
	if err != nil {
		logger.Warn("Invalid word id", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.Int("word_id", wordID))

	var patch model.StatusPatch
	if err := webutil.DecodeJSONBody(r, &patch); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	status, err := h.docs.PatchStatus(wordID, patch)
	if err != nil {
		logger.Error("Error patching user status", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User status patched successfully")
	webutil.RespondWithJSON(w, http.StatusOK, PatchStatusResponse{
		Success: true,
		Message: "状態を保存しました。",
		WordID:  wordID,
		Status:  status,
	}, logger)
}

// BatchUpdate は訳語の used フラグと学習状態のパッチをまとめて適用する
// ためのハンドラ
func (h *StatusHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "BatchUpdate"))

	var req model.BatchUpdateRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	count, err := h.docs.BatchUpdate(req)
	if err != nil {
		logger.Error("Error applying batch update", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Batch update applied successfully",
		slog.Int("word_updates", len(req.WordUpdates)),
		slog.Int("status_updates", len(req.StatusUpdates)),
	)
	webutil.RespondWithJSON(w, http.StatusOK, model.SaveResult{
		Success: true,
		Message: "一括更新が完了しました。",
		Count:   count,
	}, logger)
}
