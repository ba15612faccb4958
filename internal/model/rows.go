// internal/model/rows.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// リレーショナルバックエンド (バリアントB) の行モデル。
// ファイルバックエンドとは永続化の形が違うだけで、アダプタの外には漏らしません。

// WordRow は words テーブルの1行です。
type WordRow struct {
	ID        int    `gorm:"primaryKey"`
	Word      string `gorm:"not null"`
	Antonym   string
	InfoTitle string
	InfoBody  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// 関連 (Preload用)
	Translations []TranslationRow `gorm:"foreignKey:WordID;references:ID"`
	Examples     []ExampleRow     `gorm:"foreignKey:WordID;references:ID"`
	Phonetics    []PhoneticRow    `gorm:"foreignKey:WordID;references:ID"`
}

func (WordRow) TableName() string {
	return "words"
}

// TranslationRow は訳語1行。Used はエンジンが書き戻す唯一のコンテンツ列。
type TranslationRow struct {
	ID          int    `gorm:"primaryKey"`
	WordID      int    `gorm:"not null;index"`
	Type        string
	Translation string `gorm:"not null"`
	Used        bool   `gorm:"not null;default:false"`
}

func (TranslationRow) TableName() string {
	return "translations"
}

// ExampleRow は例文1行。
type ExampleRow struct {
	ID      int    `gorm:"primaryKey"`
	WordID  int    `gorm:"not null;index"`
	Example string `gorm:"not null"`
}

func (ExampleRow) TableName() string {
	return "examples"
}

// PhoneticRow は音標1行 (word_id につき1件)。
type PhoneticRow struct {
	WordID    int    `gorm:"primaryKey"`
	Phonetic  string `gorm:"not null"`
	UpdatedAt time.Time
}

func (PhoneticRow) TableName() string {
	return "phonetics"
}

// UserWordStatusRow は (user_id, word_id) をキーとする学習状態の1行です。
// 書き込みは常に ON CONFLICT (user_id, word_id) の upsert。
type UserWordStatusRow struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	WordID       int       `gorm:"primaryKey"`
	Learned      bool      `gorm:"not null;default:false"`
	Recite       bool      `gorm:"not null;default:false"`
	Important    bool      `gorm:"not null;default:false"`
	ErrorCount   int       `gorm:"not null;default:0"`
	TrueCount    int       `gorm:"not null;default:0"`
	LearnedCount int       `gorm:"not null;default:0"`
	LastReview   string
	NextReviewTS int64     `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

func (UserWordStatusRow) TableName() string {
	return "user_word_status"
}

// Status は行の学習状態部分をエンジンの Status 型に写します。
func (r UserWordStatusRow) Status() Status {
	return Status{
		Learned:      r.Learned,
		Recite:       r.Recite,
		Important:    r.Important,
		ErrorCount:   r.ErrorCount,
		TrueCount:    r.TrueCount,
		LearnedCount: r.LearnedCount,
		LastReview:   r.LastReview,
		NextReviewTS: r.NextReviewTS,
	}
}

// SetStatus は Status を行に書き戻します。
func (r *UserWordStatusRow) SetStatus(s Status) {
	r.Learned = s.Learned
	r.Recite = s.Recite
	r.Important = s.Important
	r.ErrorCount = s.ErrorCount
	r.TrueCount = s.TrueCount
	r.LearnedCount = s.LearnedCount
	r.LastReview = s.LastReview
	r.NextReviewTS = s.NextReviewTS
}
