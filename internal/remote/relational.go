// internal/remote/relational.go
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go_5_vocab_drill/internal/config"
	"go_5_vocab_drill/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// relationalSource はマネージドなリレーショナルバックエンド (バリアントB) です。
// エンティティは行集合で、学習状態の書き込みは (user_id, word_id) をキーに
// した ON CONFLICT の upsert になります。
type relationalSource struct {
	db     *gorm.DB
	userID uuid.UUID
	logger *slog.Logger
}

func NewRelationalSource(db *gorm.DB, userID string, logger *slog.Logger) (RemoteDataSource, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: backend.user_id must be a UUID: %v", model.ErrInvalidInput, err)
	}
	return &relationalSource{db: db, userID: uid, logger: logger}, nil
}

func (s *relationalSource) Name() string { return "relational" }

// FetchWords は全単語を取得します。クエリ結果は1リクエスト1000行で打ち切られる
// ため、既知の総件数に達するまで id 昇順でページを連結します (結果の決定性のため)。
func (s *relationalSource) FetchWords(ctx context.Context) ([]model.Word, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.WordRow{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: count words: %v", model.ErrNetwork, err)
	}

	rows := make([]model.WordRow, 0, total)
	for offset := 0; int64(offset) < total; offset += config.FetchPageSize {
		var page []model.WordRow
		err := s.db.WithContext(ctx).
			Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("translations.id ASC") }).
			Preload("Examples", func(db *gorm.DB) *gorm.DB { return db.Order("examples.id ASC") }).
			Preload("Phonetics").
			Order("words.id ASC").
			Offset(offset).
			Limit(config.FetchPageSize).
			Find(&page).Error
		if err != nil {
			return nil, fmt.Errorf("%w: fetch words page at offset %d: %v", model.ErrNetwork, offset, err)
		}
		rows = append(rows, page...)
		s.logger.Debug("Fetched word page", "offset", offset, "count", len(page))
	}

	words := make([]model.Word, 0, len(rows))
	for _, r := range rows {
		words = append(words, rowToWord(r))
	}
	return words, nil
}

func rowToWord(r model.WordRow) model.Word {
	w := model.Word{
		ID:      r.ID,
		Word:    r.Word,
		Antonym: r.Antonym,
		Info: model.Info{
			Title: r.InfoTitle,
			Body:  r.InfoBody,
			Items: []string{},
		},
		Translations: make([]model.Translation, 0, len(r.Translations)),
		Examples:     make([]string, 0, len(r.Examples)),
		Expand:       []string{},
		Phrase:       []string{},
		Status:       model.DefaultStatus(),
	}
	for _, tr := range r.Translations {
		w.Translations = append(w.Translations, model.Translation{
			Type:        tr.Type,
			Translation: tr.Translation,
			Used:        tr.Used,
		})
	}
	for _, ex := range r.Examples {
		w.Examples = append(w.Examples, ex.Example)
	}
	// 音標は word_id につき1件想定、複数あれば先頭を採用
	if len(r.Phonetics) > 0 {
		w.Phonetic = r.Phonetics[0].Phonetic
	}
	return w
}

func (s *relationalSource) FetchPhonetics(ctx context.Context) (map[int]string, error) {
	var rows []model.PhoneticRow
	if err := s.db.WithContext(ctx).Order("word_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: fetch phonetics: %v", model.ErrNetwork, err)
	}

	out := make(map[int]string, len(rows))
	for _, r := range rows {
		out[r.WordID] = r.Phonetic
	}
	return out, nil
}

func (s *relationalSource) FetchUserStatus(ctx context.Context) (map[int]model.Status, error) {
	var rows []model.UserWordStatusRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", s.userID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: fetch user status: %v", model.ErrNetwork, err)
	}

	out := make(map[int]model.Status, len(rows))
	for _, r := range rows {
		out[r.WordID] = r.Status()
	}
	return out, nil
}

// FetchIrregularWords はこのバックエンドにはテーブルがないため常に空です。
// サイドチャネルの欠如は正常 (空結果が有効) という契約に乗ります。
func (s *relationalSource) FetchIrregularWords(ctx context.Context) ([]model.IrregularWord, error) {
	return []model.IrregularWord{}, nil
}

// PatchStatus は (user_id, word_id) キーの行に対する read-modify-write です。
// 行が無ければデフォルト状態から作ります。競合は last-write-wins。
func (s *relationalSource) PatchStatus(ctx context.Context, wordID int, patch model.StatusPatch) error {
	row := model.UserWordStatusRow{
		UserID: s.userID,
		WordID: wordID,
	}
	row.SetStatus(model.DefaultStatus())

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND word_id = ?", s.userID, wordID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return fmt.Errorf("%w: find status row: %v", model.ErrNetwork, err)
	}

	st := row.Status()
	patch.Apply(&st)
	row.SetStatus(st)
	row.UpdatedAt = time.Now()

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "word_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: upsert status: %v", model.ErrNetwork, err)
	}
	return nil
}

// BatchUpdate は訳語の used フラグと学習状態をまとめて書きます。
// 原子性はこの1回の呼び出し内だけで、他の呼び出しとは独立です。
func (s *relationalSource) BatchUpdate(ctx context.Context, wordUpdates []model.WordUpdate, statusUpdates []model.StatusUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range wordUpdates {
			if u.TranslationIndex == nil {
				continue
			}
			// ドキュメント側はインデックス指定なので、id 昇順で該当行を特定する
			var trs []model.TranslationRow
			if err := tx.Where("word_id = ?", u.ID).Order("id ASC").Find(&trs).Error; err != nil {
				return fmt.Errorf("%w: find translations: %v", model.ErrNetwork, err)
			}
			idx := *u.TranslationIndex
			if idx < 0 || idx >= len(trs) {
				s.logger.Warn("Translation index out of range, skipping",
					"word_id", u.ID, "index", idx, "count", len(trs))
				continue
			}
			err := tx.Model(&model.TranslationRow{}).
				Where("id = ?", trs[idx].ID).
				Update("used", true).Error
			if err != nil {
				return fmt.Errorf("%w: mark translation used: %v", model.ErrNetwork, err)
			}
		}

		now := time.Now()
		for _, u := range statusUpdates {
			row := model.UserWordStatusRow{UserID: s.userID, WordID: u.ID}
			row.SetStatus(model.DefaultStatus())
			if err := tx.Where("user_id = ? AND word_id = ?", s.userID, u.ID).
				Limit(1).Find(&row).Error; err != nil {
				return fmt.Errorf("%w: find status row: %v", model.ErrNetwork, err)
			}
			st := row.Status()
			u.Status.Apply(&st)
			row.SetStatus(st)
			row.UpdatedAt = now

			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "word_id"}},
				UpdateAll: true,
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("%w: upsert status: %v", model.ErrNetwork, err)
			}
		}
		return nil
	})
}

// SaveWords はこのバックエンドではドキュメント置換ができないため、
// エンジンが管理する可変部分 (学習状態と訳語の used) だけを upsert します。
func (s *relationalSource) SaveWords(ctx context.Context, words []model.Word) error {
	statusUpdates := make([]model.StatusUpdate, 0, len(words))
	wordUpdates := make([]model.WordUpdate, 0)

	for _, w := range words {
		st := w.Status
		statusUpdates = append(statusUpdates, model.StatusUpdate{
			ID: w.ID,
			Status: model.StatusPatch{
				Learned:      &st.Learned,
				Recite:       &st.Recite,
				Important:    &st.Important,
				ErrorCount:   &st.ErrorCount,
				TrueCount:    &st.TrueCount,
				LearnedCount: &st.LearnedCount,
				LastReview:   &st.LastReview,
				NextReviewTS: &st.NextReviewTS,
			},
		})
		for i, tr := range w.Translations {
			if tr.Used {
				idx := i
				wordUpdates = append(wordUpdates, model.WordUpdate{ID: w.ID, TranslationIndex: &idx})
			}
		}
	}

	return s.BatchUpdate(ctx, wordUpdates, statusUpdates)
}
