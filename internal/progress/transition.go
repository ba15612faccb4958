// internal/progress/transition.go
package progress

import (
	"time"

	"go_5_vocab_drill/internal/config"
	"go_5_vocab_drill/internal/model"
)

// CoarseState は {learned, recite} の組で決まる粗い学習状態です。
// ソース上で明示的に列挙されるわけではありませんが、ログと分析で使います。
type CoarseState string

const (
	StateNew        CoarseState = "new"        // ¬learned, ¬recite
	StateMastered   CoarseState = "mastered"   // learned, ¬recite
	StateStruggling CoarseState = "struggling" // ¬learned, recite, true_count == 0
	StateRecovering CoarseState = "recovering" // ¬learned, recite, true_count > 0
)

// Classify は Status を粗い状態に分類します。
func Classify(s model.Status) CoarseState {
	switch {
	case s.Recite && s.TrueCount > 0:
		return StateRecovering
	case s.Recite:
		return StateStruggling
	case s.Learned:
		return StateMastered
	default:
		return StateNew
	}
}

// Transition は回答1回ぶんの状態遷移を計算します。純粋関数で、常に成功します。
//
// 正解時の評価順序は意図的に固定です:
// learned の判定は遷移前の recite に対して行い、誤答セットからの離脱
// (true_count が閾値に達したときの recite クリア) はその後に評価します。
// そのため3連続正解で recite を抜けた語は、その遷移では learned になりません。
// 次の正解 (recite=false の状態での正解) で初めて learned になります。
// この1ステップ遅れは元実装の挙動そのままで、順序を入れ替えてはいけません。
func Transition(s model.Status, isCorrect bool, now time.Time) model.StatusPatch {
	lastReview := now.Format("2006-01-02")
	patch := model.StatusPatch{LastReview: &lastReview}

	if isCorrect {
		trueCount := s.TrueCount + 1
		patch.TrueCount = &trueCount

		// 誤答セット外の語は1回の正解で習得扱い
		if !s.Recite {
			learned := true
			patch.Learned = &learned
		}

		next := now.Unix() + config.ReviewDelayCorrect
		patch.NextReviewTS = &next

		// 連続正解が閾値に達したら誤答セットから抜ける
		if trueCount >= config.ReciteExitThreshold && s.Recite {
			recite := false
			errorCount := 0
			patch.Recite = &recite
			patch.ErrorCount = &errorCount
		}
	} else {
		errorCount := s.ErrorCount + 1
		trueCount := 0
		learned := false
		recite := true
		patch.ErrorCount = &errorCount
		patch.TrueCount = &trueCount
		patch.Learned = &learned
		patch.Recite = &recite

		next := now.Unix() + config.ReviewDelayWrong
		patch.NextReviewTS = &next
	}

	return patch
}

// AllLearned は全語習得の判定です。空のコレクションは未達扱い。
func AllLearned(words []model.Word) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !w.Status.Learned {
			return false
		}
	}
	return true
}

// ResetPatch は全語習得後の一括リセットで1語に適用するパッチを返します。
// learned を落とし、学習完了サイクル数を1つ進めます。
func ResetPatch(s model.Status) model.StatusPatch {
	learned := false
	learnedCount := s.LearnedCount + 1
	return model.StatusPatch{
		Learned:      &learned,
		LearnedCount: &learnedCount,
	}
}
