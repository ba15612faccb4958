// internal/cache/cache.go
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"go_5_vocab_drill/internal/config"
	"go_5_vocab_drill/internal/model"
)

// Store はプロセス再起動をまたいで生き残るキー/バリュー型のスナップショット
// キャッシュです。旧クライアントの localStorage と同じ3キーを sqlite の
// kvテーブルに持ちます。すべての失敗は ErrCache に分類され、呼び出し側は
// ログに残して処理を続行します (ロードパイプラインを止めない)。
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open はキャッシュDBを開き、必要ならテーブルを作ります。
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create cache dir: %v", model.ErrCache, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open cache db: %v", model.ErrCache, err)
	}

	// 同時ライターは想定しない
	db.SetMaxOpenConns(1)

	const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value BLOB NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init cache schema: %v", model.ErrCache, err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %s: %v", model.ErrCache, key, err)
	}
	return value, true, nil
}

func (s *Store) put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", model.ErrCache, key, err)
	}
	return nil
}

// SaveSnapshot は単語コレクションと音標マップをタイムスタンプ付きで保存します。
func (s *Store) SaveSnapshot(words []model.Word, phonetics map[int]string, now time.Time) error {
	wordsJSON, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("%w: marshal words: %v", model.ErrCache, err)
	}
	phoneticsJSON, err := json.Marshal(phonetics)
	if err != nil {
		return fmt.Errorf("%w: marshal phonetics: %v", model.ErrCache, err)
	}

	if err := s.put(config.CacheKeyWords, wordsJSON); err != nil {
		return err
	}
	if err := s.put(config.CacheKeyPhonetics, phoneticsJSON); err != nil {
		return err
	}
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	if err := s.put(config.CacheKeyTimestamp, []byte(ts)); err != nil {
		return err
	}

	s.logger.Debug("Cache snapshot saved", "words", len(words), "phonetics", len(phonetics))
	return nil
}

// LoadSnapshot はスナップショットを読みます。
// キーが無い、またはTTL (5分) を過ぎている場合は ok=false を返します。
// 破損データも ok=false 扱いで、エラーは分類したうえで返します。
func (s *Store) LoadSnapshot(now time.Time) (*model.Snapshot, bool, error) {
	tsRaw, ok, err := s.get(config.CacheKeyTimestamp)
	if err != nil || !ok {
		return nil, false, err
	}
	tsMilli, err := strconv.ParseInt(string(tsRaw), 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("%w: parse timestamp: %v", model.ErrCache, err)
	}

	savedAt := time.UnixMilli(tsMilli)
	if now.Sub(savedAt) >= config.CacheTTL {
		s.logger.Debug("Cache snapshot expired", "age", now.Sub(savedAt).String())
		return nil, false, nil
	}

	wordsRaw, ok, err := s.get(config.CacheKeyWords)
	if err != nil || !ok {
		return nil, false, err
	}
	var words []model.Word
	if err := json.Unmarshal(wordsRaw, &words); err != nil {
		return nil, false, fmt.Errorf("%w: unmarshal words: %v", model.ErrCache, err)
	}

	// 音標キャッシュはベストエフォート。無くてもスナップショットは有効。
	phonetics := make(map[int]string)
	if raw, ok, err := s.get(config.CacheKeyPhonetics); err == nil && ok {
		if err := json.Unmarshal(raw, &phonetics); err != nil {
			s.logger.Warn("Failed to decode phonetics cache, ignoring", "error", err)
			phonetics = make(map[int]string)
		}
	}

	return &model.Snapshot{
		Words:     words,
		Phonetics: phonetics,
		Timestamp: savedAt,
	}, true, nil
}

// Clear はスナップショットを明示的に無効化します。
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?, ?)`,
		config.CacheKeyWords, config.CacheKeyTimestamp, config.CacheKeyPhonetics)
	if err != nil {
		return fmt.Errorf("%w: clear: %v", model.ErrCache, err)
	}
	return nil
}
