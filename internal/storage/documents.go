// internal/storage/documents.go
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go_5_vocab_drill/internal/config"
	"go_5_vocab_drill/internal/model"
)

// Documents はファイルバックエンドの永続化層です。データディレクトリ配下の
// JSONドキュメントを丸ごと読み書きします。行単位の更新はせず、読み込み →
// メモリ上で変更 → 全置換 が基本の流れ。書き込みは一時ファイル経由の
// リネームで、途中で落ちても壊れたドキュメントが残らないようにします。
type Documents struct {
	dir    string
	logger *slog.Logger

	// ドキュメント読み書きの直列化
	mu sync.Mutex
}

const (
	fileWords     = "words.json"
	filePhonetics = "phonetics.json"
	fileStatus    = "user_word_status.json"
	fileIrregular = "irregular_words.json"
	fileSettings  = "settings.json"
)

func NewDocuments(dataDir string, logger *slog.Logger) (*Documents, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", model.ErrInternalServer, err)
	}
	return &Documents{dir: dataDir, logger: logger}, nil
}

func (d *Documents) path(name string) string {
	return filepath.Join(d.dir, name)
}

// readJSON はドキュメントを読み込みます。ファイルが無い場合は ok=false。
func (d *Documents) readJSON(name string, dst interface{}) (bool, error) {
	data, err := os.ReadFile(d.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read %s: %v", model.ErrInternalServer, name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: parse %s: %v", model.ErrFormat, name, err)
	}
	return true, nil
}

// writeJSON はドキュメントを全置換します。
func (d *Documents) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", model.ErrInternalServer, name, err)
	}

	tmp := d.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", model.ErrInternalServer, name, err)
	}
	if err := os.Rename(tmp, d.path(name)); err != nil {
		return fmt.Errorf("%w: replace %s: %v", model.ErrInternalServer, name, err)
	}
	return nil
}

// Words は単語ドキュメント全体を返します。未作成なら空のリスト
// (初回起動をエラーにしない)。
func (d *Documents) Words() ([]model.Word, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wordsLocked()
}

func (d *Documents) wordsLocked() ([]model.Word, error) {
	words := []model.Word{}
	if _, err := d.readJSON(fileWords, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// ReplaceWords は単語ドキュメントを丸ごと差し替えます。
func (d *Documents) ReplaceWords(words []model.Word) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeJSON(fileWords, words)
}

// Phonetics は音標ドキュメントを返します。キーは単語idの文字列表現。
// 未作成なら空のマップ。
func (d *Documents) Phonetics() (map[string]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phoneticsLocked()
}

func (d *Documents) phoneticsLocked() (map[string]string, error) {
	phonetics := make(map[string]string)
	if _, err := d.readJSON(filePhonetics, &phonetics); err != nil {
		return nil, err
	}
	return phonetics, nil
}

// ReplacePhonetics は音標ドキュメントを丸ごと差し替えます。
func (d *Documents) ReplacePhonetics(phonetics map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeJSON(filePhonetics, phonetics)
}

// SetPhonetic は1語の音標を追加または更新します (旧互換ルート用)。
func (d *Documents) SetPhonetic(wordID int, phonetic string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	phonetics, err := d.phoneticsLocked()
	if err != nil {
		return err
	}
	phonetics[strconv.Itoa(wordID)] = phonetic
	return d.writeJSON(filePhonetics, phonetics)
}

// UserStatus は学習状態ドキュメントを返します。未作成なら空のドキュメント。
func (d *Documents) UserStatus() (model.UserStatusDocument, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.userStatusLocked()
}

func (d *Documents) userStatusLocked() (model.UserStatusDocument, error) {
	var doc model.UserStatusDocument
	if _, err := d.readJSON(fileStatus, &doc); err != nil {
		return model.UserStatusDocument{}, err
	}
	return doc, nil
}

// PatchStatus は1語の学習状態にパッチを適用します。エントリが無ければ
// デフォルト状態を作ってから適用します (find-or-create)。
func (d *Documents) PatchStatus(wordID int, patch model.StatusPatch) (model.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := d.userStatusLocked()
	if err != nil {
		return model.Status{}, err
	}

	status, err := d.patchStatusLocked(&doc, wordID, patch)
	if err != nil {
		return model.Status{}, err
	}
	if err := d.writeJSON(fileStatus, doc); err != nil {
		return model.Status{}, err
	}
	return status, nil
}

func (d *Documents) patchStatusLocked(doc *model.UserStatusDocument, wordID int, patch model.StatusPatch) (model.Status, error) {
	for i := range doc.Words {
		if doc.Words[i].ID == wordID {
			patch.Apply(&doc.Words[i].Status)
			return doc.Words[i].Status, nil
		}
	}

	status := model.DefaultStatus()
	patch.Apply(&status)
	doc.Words = append(doc.Words, model.UserStatusEntry{ID: wordID, Status: status})
	return status, nil
}

// BatchUpdate は訳語の used フラグと学習状態のパッチをまとめて適用し、
// 適用件数を返します。原子性はこの1呼び出しの範囲だけです。
func (d *Documents) BatchUpdate(req model.BatchUpdateRequest) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := 0

	if len(req.WordUpdates) > 0 {
		words, err := d.wordsLocked()
		if err != nil {
			return 0, err
		}
		changed := false
		for _, u := range req.WordUpdates {
			if u.TranslationIndex == nil {
				continue
			}
			for i := range words {
				if words[i].ID != u.ID {
					continue
				}
				idx := *u.TranslationIndex
				if idx < 0 || idx >= len(words[i].Translations) {
					d.logger.Warn("Translation index out of range, skipping",
						"word_id", u.ID, "index", idx)
					break
				}
				words[i].Translations[idx].Used = true
				changed = true
				count++
				break
			}
		}
		if changed {
			if err := d.writeJSON(fileWords, words); err != nil {
				return 0, err
			}
		}
	}

	if len(req.StatusUpdates) > 0 {
		doc, err := d.userStatusLocked()
		if err != nil {
			return 0, err
		}
		for _, u := range req.StatusUpdates {
			if _, err := d.patchStatusLocked(&doc, u.ID, u.Status); err != nil {
				return 0, err
			}
			count++
		}
		if err := d.writeJSON(fileStatus, doc); err != nil {
			return 0, err
		}
	}

	return count, nil
}

// IrregularWords は不規則動詞ドキュメントを返します。未作成なら空。
func (d *Documents) IrregularWords() ([]model.IrregularWord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	words := []model.IrregularWord{}
	if _, err := d.readJSON(fileIrregular, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// Settings は設定ドキュメントを返します。未作成ならデフォルト値。
func (d *Documents) Settings() (model.Settings, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	settings := model.Settings{
		Dictation: model.DictationSettings{
			TimeLeft:  config.DefaultDictationTime,
			BatchSize: config.DefaultDictationBatch,
		},
	}
	if _, err := d.readJSON(fileSettings, &settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// SaveSettings は設定ドキュメントを差し替えます。
func (d *Documents) SaveSettings(settings model.Settings) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeJSON(fileSettings, settings)
}
