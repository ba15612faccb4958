// internal/handlers/settings_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_vocab_drill/internal/model"
	"go_5_vocab_drill/internal/storage"
	"go_5_vocab_drill/internal/webutil"
)

type SettingsHandler struct {
	docs   *storage.Documents
	logger *slog.Logger
}

func NewSettingsHandler(docs *storage.Documents, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{
		docs:   docs,
		logger: logger,
	}
}

// GetSettings は設定を取得するためのハンドラ。未作成ならデフォルト値を返します。
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSettings"))

	settings, err := h.docs.Settings()
	if err != nil {
		logger.Error("Error reading settings document", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, settings, logger)
}

// PostSettings は設定を保存するためのハンドラ
func (h *SettingsHandler) PostSettings(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSettings"))

	var settings model.Settings
	if err := webutil.DecodeJSONBody(r, &settings); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(settings.Dictation); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.docs.SaveSettings(settings); err != nil {
		logger.Error("Error saving settings", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Settings saved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, model.SaveResult{
		Success: true,
		Message: "設定を保存しました。",
	}, logger)
}
