package cache

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"go_5_vocab_drill/internal/config"
	"go_5_vocab_drill/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testWords() []model.Word {
	return []model.Word{
		{ID: 1, Word: "apple", Status: model.Status{Learned: true, TrueCount: 2, LastReview: "2026-08-28"}},
		{ID: 2, Word: "banana", Status: model.Status{Recite: true, ErrorCount: 1}},
	}
}

func TestStore_SaveAndLoadSnapshot(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()

	phonetics := map[int]string{1: "ˈæpl", 2: "bəˈnɑːnə"}
	require.NoError(t, s.SaveSnapshot(testWords(), phonetics, now))

	// TTL内のロードは保存した内容をそのまま返す (ラウンドトリップ)
	snap, ok, err := s.LoadSnapshot(now.Add(1 * time.Minute))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testWords(), snap.Words)
	assert.Equal(t, phonetics, snap.Phonetics)
	assert.Equal(t, now.UnixMilli(), snap.Timestamp.UnixMilli())
}

func TestStore_LoadSnapshot_Expired(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()

	require.NoError(t, s.SaveSnapshot(testWords(), nil, now))

	tests := []struct {
		name   string
		at     time.Time
		wantOK bool
	}{
		{name: "正常系: TTL直前はヒット", at: now.Add(config.CacheTTL - time.Second), wantOK: true},
		{name: "正常系: TTL経過でミス", at: now.Add(config.CacheTTL), wantOK: false},
		{name: "正常系: TTL超過でミス", at: now.Add(time.Hour), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := s.LoadSnapshot(tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestStore_LoadSnapshot_Empty(t *testing.T) {
	s := openTestStore(t)

	snap, ok, err := s.LoadSnapshot(time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestStore_Clear(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()

	require.NoError(t, s.SaveSnapshot(testWords(), nil, now))
	require.NoError(t, s.Clear())

	_, ok, err := s.LoadSnapshot(now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Overwrite(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()

	require.NoError(t, s.SaveSnapshot(testWords(), nil, now))

	// ロード成功のたびに作り直される: 2回目の保存が前回を上書きする
	updated := testWords()
	updated[0].Status.Learned = false
	later := now.Add(30 * time.Second)
	require.NoError(t, s.SaveSnapshot(updated, nil, later))

	snap, ok, err := s.LoadSnapshot(later)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, updated, snap.Words)
	assert.Equal(t, later.UnixMilli(), snap.Timestamp.UnixMilli())
}

func TestStore_ErrorsAreCacheErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// ディレクトリをDBパスに指定して開けなくする
	dir := t.TempDir()
	_, err := Open(dir, logger)
	if err != nil {
		assert.True(t, errors.Is(err, model.ErrCache))
	}
}
