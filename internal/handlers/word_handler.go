// internal/handlers/word_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_vocab_drill/internal/model"
	"go_5_vocab_drill/internal/storage"
	"go_5_vocab_drill/internal/webutil"
)

type WordHandler struct {
	docs   *storage.Documents
	logger *slog.Logger
}

func NewWordHandler(docs *storage.Documents, logger *slog.Logger) *WordHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordHandler{
		docs:   docs,
		logger: logger,
	}
}

// GetWords は単語ドキュメント全体を取得するためのハンドラ
func (h *WordHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetWords"))

	words, err := h.docs.Words()
	if err != nil {
		logger.Error("Error reading words document", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Words listed successfully", slog.Int("count", len(words)))
	webutil.RespondWithJSON(w, http.StatusOK, words, logger)
}

// PostWords は単語ドキュメントを丸ごと差し替えるためのハンドラ
func (h *WordHandler) PostWords(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostWords"))

	var words []model.Word
	if err := webutil.DecodeJSONBody(r, &words); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.docs.ReplaceWords(words); err != nil {
		logger.Error("Error replacing words document", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Words saved successfully", slog.Int("count", len(words)))
	webutil.RespondWithJSON(w, http.StatusOK, model.SaveResult{
		Success: true,
		Message: "保存しました。",
		Count:   len(words),
	}, logger)
}

// PatchPhonetic は1語の音標を更新するためのハンドラ。
// 旧クライアント互換のために残しているルートで、新しいクライアントは
// POST /api/phonetics で一括保存します。
func (h *WordHandler) PatchPhonetic(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchPhonetic"))

	wordID, err := webutil.URLParamInt(r, "word_id")
	if err != nil {
		logger.Warn("Invalid word id", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.Int("word_id", wordID))

	var req model.PatchPhoneticRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.docs.SetPhonetic(wordID, req.Phonetic); err != nil {
		logger.Error("Error saving phonetic", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Phonetic updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, model.SaveResult{
		Success: true,
		Message: "音標を保存しました。",
	}, logger)
}

// GetPhonetics は音標ドキュメント全体を取得するためのハンドラ
func (h *WordHandler) GetPhonetics(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetPhonetics"))

	phonetics, err := h.docs.Phonetics()
	if err != nil {
		logger.Error("Error reading phonetics document", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, phonetics, logger)
}

// PostPhonetics は音標ドキュメントを丸ごと差し替えるためのハンドラ
func (h *WordHandler) PostPhonetics(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostPhonetics"))

	phonetics := make(map[string]string)
	if err := webutil.DecodeJSONBody(r, &phonetics); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.docs.ReplacePhonetics(phonetics); err != nil {
		logger.Error("Error replacing phonetics document", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Phonetics saved successfully", slog.Int("count", len(phonetics)))
	webutil.RespondWithJSON(w, http.StatusOK, model.SaveResult{
		Success: true,
		Message: "音標を保存しました。",
		Count:   len(phonetics),
	}, logger)
}

// GetIrregularWords は不規則動詞ドキュメントを取得するためのハンドラ
func (h *WordHandler) GetIrregularWords(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetIrregularWords"))

	words, err := h.docs.IrregularWords()
	if err != nil {
		logger.Error("Error reading irregular words document", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, words, logger)
}
