package progress

import (
	"testing"
	"time"

	"go_5_vocab_drill/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applied(s model.Status, isCorrect bool, now time.Time) model.Status {
	patch := Transition(s, isCorrect, now)
	patch.Apply(&s)
	return s
}

func TestTransition_Correct(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   model.Status
		want model.Status
	}{
		{
			name: "正常系: 未学習語は1回の正解で learned になる",
			in:   model.Status{Learned: false, Recite: false, TrueCount: 0, ErrorCount: 0},
			want: model.Status{
				Learned: true, Recite: false, TrueCount: 1, ErrorCount: 0,
				LastReview: "2026-08-28", NextReviewTS: now.Unix() + 86400,
			},
		},
		{
			name: "正常系: 誤答セットの語の正解では learned は立たない",
			in:   model.Status{Learned: false, Recite: true, TrueCount: 0, ErrorCount: 2},
			want: model.Status{
				Learned: false, Recite: true, TrueCount: 1, ErrorCount: 2,
				LastReview: "2026-08-28", NextReviewTS: now.Unix() + 86400,
			},
		},
		{
			name: "正常系: 3連続正解で誤答セットから抜け error_count がリセットされる",
			in:   model.Status{Learned: false, Recite: true, TrueCount: 2, ErrorCount: 1},
			want: model.Status{
				Learned: false, Recite: false, TrueCount: 3, ErrorCount: 0,
				LastReview: "2026-08-28", NextReviewTS: now.Unix() + 86400,
			},
		},
		{
			name: "正常系: 回復直後の語は次の正解で learned になる",
			in:   model.Status{Learned: false, Recite: false, TrueCount: 3, ErrorCount: 0},
			want: model.Status{
				Learned: true, Recite: false, TrueCount: 4, ErrorCount: 0,
				LastReview: "2026-08-28", NextReviewTS: now.Unix() + 86400,
			},
		},
		{
			name: "正常系: 習得済みの語の正解は true_count だけ進む",
			in:   model.Status{Learned: true, Recite: false, TrueCount: 5, ErrorCount: 0},
			want: model.Status{
				Learned: true, Recite: false, TrueCount: 6, ErrorCount: 0,
				LastReview: "2026-08-28", NextReviewTS: now.Unix() + 86400,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applied(tt.in, true, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_Wrong(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   model.Status
	}{
		{name: "未学習語", in: model.Status{}},
		{name: "習得済みの語", in: model.Status{Learned: true, TrueCount: 4}},
		{name: "誤答セットの語", in: model.Status{Recite: true, ErrorCount: 3, TrueCount: 2}},
		{name: "重要フラグ付きの語", in: model.Status{Important: true, Learned: true}},
	}

	for _, tt := range tests {
		t.Run("正常系: 不正解は常に誤答セット行き ("+tt.name+")", func(t *testing.T) {
			got := applied(tt.in, false, now)

			assert.False(t, got.Learned)
			assert.True(t, got.Recite)
			assert.Equal(t, 0, got.TrueCount)
			assert.Equal(t, tt.in.ErrorCount+1, got.ErrorCount)
			assert.Equal(t, now.Unix()+300, got.NextReviewTS)
			assert.Equal(t, "2026-08-28", got.LastReview)
			// important は遷移関数が触らない
			assert.Equal(t, tt.in.Important, got.Important)
		})
	}
}

// true_count と error_count が遷移後に同時に正になることはない。
func TestTransition_CountsNeverBothPositive(t *testing.T) {
	now := time.Now()
	statuses := []model.Status{
		{},
		{Recite: true, ErrorCount: 2, TrueCount: 0},
		{Recite: true, ErrorCount: 1, TrueCount: 2},
		{Learned: true, TrueCount: 7},
	}

	for _, s := range statuses {
		for _, correct := range []bool{true, false} {
			got := applied(s, correct, now)
			if got.TrueCount > 0 && got.ErrorCount > 0 {
				// 例外は「回復途中」(recite のまま正解を重ねている) だけ
				require.True(t, got.Recite,
					"true_count=%d error_count=%d の同時正は recite 中の回復のみ許される", got.TrueCount, got.ErrorCount)
			}
		}
	}
}

// 3連続正解で recite を抜けた直後の遷移では learned が立たないこと。
// 評価順序の仕様 (1ステップ遅れ) を固定するテスト。
func TestTransition_RecoveryDoesNotLearnSameStep(t *testing.T) {
	now := time.Now()

	s := model.Status{Learned: false, Recite: true, TrueCount: 2, ErrorCount: 1}
	s = applied(s, true, now)

	assert.False(t, s.Learned, "recite を抜ける遷移と同じステップで learned になってはいけない")
	assert.False(t, s.Recite)
	assert.Equal(t, 3, s.TrueCount)
	assert.Equal(t, 0, s.ErrorCount)

	// 次の正解で初めて learned
	s = applied(s, true, now)
	assert.True(t, s.Learned)
}

func TestTransition_Pure(t *testing.T) {
	now := time.Now()
	s := model.Status{Recite: true, TrueCount: 1, ErrorCount: 2}

	p1 := Transition(s, true, now)
	p2 := Transition(s, true, now)

	assert.Equal(t, p1, p2, "同じ入力には同じパッチを返す")
	assert.Equal(t, model.Status{Recite: true, TrueCount: 1, ErrorCount: 2}, s, "引数の Status を書き換えない")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, StateNew, Classify(model.Status{}))
	assert.Equal(t, StateMastered, Classify(model.Status{Learned: true}))
	assert.Equal(t, StateStruggling, Classify(model.Status{Recite: true}))
	assert.Equal(t, StateRecovering, Classify(model.Status{Recite: true, TrueCount: 2}))
}

func TestAllLearned(t *testing.T) {
	tests := []struct {
		name  string
		words []model.Word
		want  bool
	}{
		{name: "正常系: 空コレクションは未達", words: nil, want: false},
		{
			name: "正常系: 全語 learned で達成",
			words: []model.Word{
				{ID: 1, Status: model.Status{Learned: true}},
				{ID: 2, Status: model.Status{Learned: true}},
			},
			want: true,
		},
		{
			name: "正常系: 1語でも未習得なら未達",
			words: []model.Word{
				{ID: 1, Status: model.Status{Learned: true}},
				{ID: 2, Status: model.Status{Learned: false}},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllLearned(tt.words))
		})
	}
}

func TestResetPatch(t *testing.T) {
	s := model.Status{Learned: true, LearnedCount: 2, TrueCount: 5}
	patch := ResetPatch(s)
	patch.Apply(&s)

	assert.False(t, s.Learned)
	assert.Equal(t, 3, s.LearnedCount)
	// リセットは learned と learned_count 以外に触らない
	assert.Equal(t, 5, s.TrueCount)
}
