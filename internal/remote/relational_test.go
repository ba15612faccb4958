package remote

import (
	"context"
	"fmt"
	"testing"

	"go_5_vocab_drill/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 (インメモリDBセットアップ) ---
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // テスト中はログを抑制
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.WordRow{},
		&model.TranslationRow{},
		&model.ExampleRow{},
		&model.PhoneticRow{},
		&model.UserWordStatusRow{},
	)
	require.NoError(t, err)
	return db
}

func newTestSource(t *testing.T, db *gorm.DB) RemoteDataSource {
	t.Helper()
	s, err := NewRelationalSource(db, uuid.New().String(), testLogger())
	require.NoError(t, err)
	return s
}

func seedWords(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&model.WordRow{
			ID:   i,
			Word: fmt.Sprintf("word%04d", i),
		}).Error)
	}
}

func TestNewRelationalSource_InvalidUserID(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewRelationalSource(db, "not-a-uuid", testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRelationalSource_FetchWords(t *testing.T) {
	db := setupTestDB(t)
	s := newTestSource(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.WordRow{ID: 1, Word: "apple", Antonym: ""}).Error)
	require.NoError(t, db.Create(&model.TranslationRow{ID: 1, WordID: 1, Type: "n.", Translation: "りんご"}).Error)
	require.NoError(t, db.Create(&model.TranslationRow{ID: 2, WordID: 1, Type: "n.", Translation: "アップル", Used: true}).Error)
	require.NoError(t, db.Create(&model.ExampleRow{ID: 1, WordID: 1, Example: "An apple a day."}).Error)
	require.NoError(t, db.Create(&model.PhoneticRow{WordID: 1, Phonetic: "ˈæpl"}).Error)
	require.NoError(t, db.Create(&model.WordRow{ID: 2, Word: "run"}).Error)

	words, err := s.FetchWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 2)

	apple := words[0]
	assert.Equal(t, 1, apple.ID)
	assert.Equal(t, "apple", apple.Word)
	assert.Equal(t, "ˈæpl", apple.Phonetic)
	require.Len(t, apple.Translations, 2)
	assert.Equal(t, "りんご", apple.Translations[0].Translation)
	assert.True(t, apple.Translations[1].Used)
	assert.Equal(t, []string{"An apple a day."}, apple.Examples)
	// 状態は行が無いのでデフォルト
	assert.Equal(t, model.DefaultStatus(), apple.Status)
}

// ページ打ち切りの再現: 1000行を超えるコレクションでも全件を id 昇順で返す。
func TestRelationalSource_FetchWords_Pagination(t *testing.T) {
	db := setupTestDB(t)
	s := newTestSource(t, db)

	const n = 2350 // 3ページぶん
	seedWords(t, db, n)

	words, err := s.FetchWords(context.Background())
	require.NoError(t, err)
	require.Len(t, words, n)

	for i, w := range words {
		require.Equal(t, i+1, w.ID, "id 昇順で連結されていること")
	}
}

func TestRelationalSource_FetchUserStatus(t *testing.T) {
	db := setupTestDB(t)
	uid := uuid.New()
	s, err := NewRelationalSource(db, uid.String(), testLogger())
	require.NoError(t, err)

	row := model.UserWordStatusRow{UserID: uid, WordID: 7}
	row.SetStatus(model.Status{Learned: true, TrueCount: 4, LastReview: "2026-08-01"})
	require.NoError(t, db.Create(&row).Error)

	// 他ユーザーの行は見えない
	other := model.UserWordStatusRow{UserID: uuid.New(), WordID: 7}
	other.SetStatus(model.Status{Recite: true})
	require.NoError(t, db.Create(&other).Error)

	statuses, err := s.FetchUserStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[7].Learned)
	assert.Equal(t, 4, statuses[7].TrueCount)
}

func TestRelationalSource_PatchStatus_Upsert(t *testing.T) {
	db := setupTestDB(t)
	uid := uuid.New()
	s, err := NewRelationalSource(db, uid.String(), testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	learned := true
	trueCount := 1

	// 行が無い状態からの find-or-create
	require.NoError(t, s.PatchStatus(ctx, 5, model.StatusPatch{Learned: &learned, TrueCount: &trueCount}))

	var row model.UserWordStatusRow
	require.NoError(t, db.Where("user_id = ? AND word_id = ?", uid, 5).First(&row).Error)
	assert.True(t, row.Learned)
	assert.Equal(t, 1, row.TrueCount)

	// 2回目は既存行の upsert。触らないフィールドは維持される。
	recite := true
	require.NoError(t, s.PatchStatus(ctx, 5, model.StatusPatch{Recite: &recite}))

	require.NoError(t, db.Where("user_id = ? AND word_id = ?", uid, 5).First(&row).Error)
	assert.True(t, row.Learned, "前回のパッチ結果が残る")
	assert.True(t, row.Recite)

	var count int64
	require.NoError(t, db.Model(&model.UserWordStatusRow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "同じ (user_id, word_id) で行が増殖しない")
}

func TestRelationalSource_BatchUpdate(t *testing.T) {
	db := setupTestDB(t)
	uid := uuid.New()
	s, err := NewRelationalSource(db, uid.String(), testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.WordRow{ID: 1, Word: "go"}).Error)
	require.NoError(t, db.Create(&model.TranslationRow{ID: 10, WordID: 1, Translation: "行く"}).Error)
	require.NoError(t, db.Create(&model.TranslationRow{ID: 11, WordID: 1, Translation: "囲碁"}).Error)

	idx := 1
	learned := true
	err = s.BatchUpdate(ctx,
		[]model.WordUpdate{
			{ID: 1, TranslationIndex: &idx},
			{ID: 1, TranslationIndex: nil}, // nil インデックスは無視
		},
		[]model.StatusUpdate{
			{ID: 1, Status: model.StatusPatch{Learned: &learned}},
		},
	)
	require.NoError(t, err)

	var tr model.TranslationRow
	require.NoError(t, db.First(&tr, 11).Error)
	assert.True(t, tr.Used, "インデックスは id 昇順で解決される")

	tr = model.TranslationRow{}
	require.NoError(t, db.First(&tr, 10).Error)
	assert.False(t, tr.Used)

	var row model.UserWordStatusRow
	require.NoError(t, db.Where("user_id = ? AND word_id = ?", uid, 1).First(&row).Error)
	assert.True(t, row.Learned)
}

func TestRelationalSource_FetchIrregularWords_Empty(t *testing.T) {
	db := setupTestDB(t)
	s := newTestSource(t, db)

	words, err := s.FetchIrregularWords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, words, "テーブルを持たないサイドチャネルは空で正常")
}
