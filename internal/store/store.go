// internal/store/store.go
package store

import (
	"math"
	"sync"

	"go_5_vocab_drill/internal/model"
)

// WordStore はセッション中の単語コレクションの正本を持つインメモリストアです。
// プロセス全体のシングルトンではなくコンストラクタで作り、利用側に参照で渡します。
// 変更はシングルライターの前提ですが、派生ビューの読み出しが別ゴルーチンから
// 来ても壊れないよう RWMutex だけ持ちます。
type WordStore struct {
	mu    sync.RWMutex
	words []model.Word
	index map[int]int // id -> words のインデックス
}

func NewWordStore() *WordStore {
	return &WordStore{
		index: make(map[int]int),
	}
}

// Replace はコレクション全体を差し替えます。ロード成功時に使います。
func (s *WordStore) Replace(words []model.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.words = make([]model.Word, len(words))
	copy(s.words, words)
	s.index = make(map[int]int, len(words))
	for i, w := range s.words {
		s.index[w.ID] = i
	}
}

// Get はidで1語を返します。見つからなければ ok=false。
func (s *WordStore) Get(id int) (model.Word, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Word{}, false
	}
	return s.words[i], true
}

// All はコレクションのコピーを返します。
func (s *WordStore) All() []model.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Word, len(s.words))
	copy(out, s.words)
	return out
}

// UpsertStatus は1語の状態にパッチを適用します。
// 未知のidは黙って無視します (エラーではなく false を返すだけ)。
// 古いUI参照からの更新を許容するための意図的な寛容さです。
func (s *WordStore) UpsertStatus(id int, patch model.StatusPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	patch.Apply(&s.words[i].Status)
	return true
}

// SetPhonetic は音標サイドチャネルのマージで使います。未知のidは無視。
func (s *WordStore) SetPhonetic(id int, phonetic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.words[i].Phonetic = phonetic
	return true
}

// MarkTranslationUsed は訳語の used フラグを立てます。
// id も index も範囲外なら no-op。
func (s *WordStore) MarkTranslationUsed(id, translationIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	if translationIndex < 0 || translationIndex >= len(s.words[i].Translations) {
		return false
	}
	s.words[i].Translations[translationIndex].Used = true
	return true
}

// --- 派生ビュー ---
// いずれもアクセスのたびに再計算します。キャッシュしません。

func (s *WordStore) filter(pred func(model.Word) bool) []model.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Word, 0)
	for _, w := range s.words {
		if pred(w) {
			out = append(out, w)
		}
	}
	return out
}

// WrongWords は誤答セット (recite=true) の語を返します。
func (s *WordStore) WrongWords() []model.Word {
	return s.filter(func(w model.Word) bool { return w.Status.Recite })
}

// LearnedWords は習得済み (learned=true) の語を返します。
func (s *WordStore) LearnedWords() []model.Word {
	return s.filter(func(w model.Word) bool { return w.Status.Learned })
}

// UnlearnedWords は未習得の語を返します。
func (s *WordStore) UnlearnedWords() []model.Word {
	return s.filter(func(w model.Word) bool { return !w.Status.Learned })
}

func (s *WordStore) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

func (s *WordStore) LearnedCount() int {
	return len(s.LearnedWords())
}

func (s *WordStore) WrongCount() int {
	return len(s.WrongWords())
}

// Progress は習得率 (0-100, 四捨五入) を返します。0語のときは0。
func (s *WordStore) Progress() int {
	total := s.TotalCount()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(s.LearnedCount()) / float64(total) * 100))
}
