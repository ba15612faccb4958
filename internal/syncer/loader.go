// internal/syncer/loader.go
package syncer

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go_5_vocab_drill/internal/assets"
	"go_5_vocab_drill/internal/cache"
	"go_5_vocab_drill/internal/model"
	"go_5_vocab_drill/internal/progress"
	"go_5_vocab_drill/internal/remote"
	"go_5_vocab_drill/internal/store"
)

// Syncer はロードと書き戻しのオーケストレータです。
// 読み込みは キャッシュ → ネットワーク → 同梱スナップショット の固定優先順で、
// 最初に成功した経路を採用します。書き込みはローカル楽観更新を正とし、
// キャッシュへミラーしたうえでリモートへは Queue 経由の fire-and-forget。
type Syncer struct {
	store  *store.WordStore
	cache  *cache.Store
	remote remote.RemoteDataSource
	queue  *Queue
	logger *slog.Logger

	// テストから差し替えるためのフック
	fallback func() ([]model.Word, error)
	now      func() time.Time

	loading atomic.Bool
	saving  atomic.Bool

	mu        sync.Mutex
	loadErr   error
	lastSync  time.Time
	irregular map[string]model.IrregularWord
}

func New(st *store.WordStore, ca *cache.Store, src remote.RemoteDataSource, q *Queue, logger *slog.Logger) *Syncer {
	return &Syncer{
		store:     st,
		cache:     ca,
		remote:    src,
		queue:     q,
		logger:    logger,
		fallback:  assets.Fallback,
		now:       time.Now,
		irregular: make(map[string]model.IrregularWord),
	}
}

// Store は派生ビューの読み出し用にストアを公開します。
func (s *Syncer) Store() *store.WordStore {
	return s.store
}

// Load は単語コレクションを読み込みます。
// すでにロード中なら何もしません (キューされず、エラーにもなりません)。
// UIの再描画連打で二重リクエストを出さないためのガードです。
func (s *Syncer) Load(ctx context.Context, forceRefresh bool) error {
	if !s.loading.CompareAndSwap(false, true) {
		s.logger.Debug("Load already in flight, ignoring")
		return nil
	}
	defer s.loading.Store(false)

	s.setLoadErr(nil)

	// 1. キャッシュ (force-refresh でない場合のみ)
	if !forceRefresh {
		if ok := s.loadFromCache(); ok {
			return nil
		}
	}

	// 2. ネットワーク
	if err := s.loadFromRemote(ctx); err == nil {
		return nil
	} else {
		s.logger.Warn("Remote load failed, falling back to bundled snapshot", "error", err)
	}

	// 3. 同梱スナップショット。ここはサイドチャネルのマージもキャッシュ書き込みも
	// しません。これも失敗した場合だけが終端の error 状態。
	words, err := s.fallback()
	if err != nil {
		s.logger.Error("Bundled snapshot load failed", "error", err)
		appErr := model.NewAppError("NO_DATA", "単語データを読み込めませんでした。", "", model.ErrNoData)
		s.setLoadErr(appErr)
		return appErr
	}

	s.store.Replace(words)
	s.logger.Info("Loaded words from bundled snapshot", "count", len(words))
	return nil
}

func (s *Syncer) loadFromCache() bool {
	snap, ok, err := s.cache.LoadSnapshot(s.now())
	if err != nil {
		// キャッシュ異常はロードを止めない
		s.logger.Warn("Cache read failed, ignoring", "error", err)
		return false
	}
	if !ok {
		return false
	}

	words := snap.Words
	for i := range words {
		if p, ok := snap.Phonetics[words[i].ID]; ok && p != "" {
			words[i].Phonetic = p
		}
	}
	s.store.Replace(words)

	s.mu.Lock()
	s.lastSync = snap.Timestamp
	s.mu.Unlock()

	s.logger.Info("Loaded words from cache", "count", len(words))
	return true
}

func (s *Syncer) loadFromRemote(ctx context.Context) error {
	words, err := s.remote.FetchWords(ctx)
	if err != nil {
		return err
	}

	// サイドチャネルはベストエフォート。失敗は空データに落として続行する。
	phonetics, err := s.remote.FetchPhonetics(ctx)
	if err != nil {
		s.logger.Warn("Phonetics side channel unavailable", "error", err)
		phonetics = map[int]string{}
	}
	statuses, err := s.remote.FetchUserStatus(ctx)
	if err != nil {
		s.logger.Warn("User status side channel unavailable", "error", err)
		statuses = map[int]model.Status{}
	}
	irregulars, err := s.remote.FetchIrregularWords(ctx)
	if err != nil {
		s.logger.Warn("Irregular words side channel unavailable", "error", err)
		irregulars = nil
	}

	// マージ: 音標と状態は Word のフィールドを上書き、不規則動詞は別引き。
	for i := range words {
		if p, ok := phonetics[words[i].ID]; ok && p != "" {
			words[i].Phonetic = p
		}
		if st, ok := statuses[words[i].ID]; ok {
			words[i].Status = st
		}
	}

	irregularIndex := make(map[string]model.IrregularWord, len(irregulars))
	for _, iw := range irregulars {
		irregularIndex[strings.ToLower(iw.Word)] = iw
	}

	s.store.Replace(words)

	now := s.now()
	if err := s.cache.SaveSnapshot(words, phonetics, now); err != nil {
		s.logger.Warn("Cache write failed, ignoring", "error", err)
	}

	s.mu.Lock()
	s.lastSync = now
	s.irregular = irregularIndex
	s.mu.Unlock()

	s.logger.Info("Loaded words from remote",
		"backend", s.remote.Name(),
		"count", len(words),
		"statuses", len(statuses),
		"irregulars", len(irregulars),
	)
	return nil
}

// SubmitAnswer は回答1回を反映します。
// 遷移の計算 → ストアへ楽観適用 → キャッシュへミラー → リモートへ非同期パッチ。
// 未知のidは黙って無視します (古いUI参照への意図的な寛容さ)。
// 全語習得に達した場合は一括リセットまで行います。
func (s *Syncer) SubmitAnswer(ctx context.Context, wordID int, isCorrect bool) (model.Status, bool) {
	w, ok := s.store.Get(wordID)
	if !ok {
		s.logger.Debug("Answer for unknown word id, ignoring", "word_id", wordID)
		return model.Status{}, false
	}

	patch := progress.Transition(w.Status, isCorrect, s.now())
	s.store.UpsertStatus(wordID, patch)
	s.queue.EnqueueStatus(wordID, patch)

	updated, _ := s.store.Get(wordID)
	s.logger.Debug("Applied answer",
		"word_id", wordID,
		"correct", isCorrect,
		"state", string(progress.Classify(updated.Status)),
	)

	s.CheckAndResetLearned(ctx)
	s.mirrorCache()

	return updated.Status, true
}

// CheckAndResetLearned は全語習得の判定と一括リセットを行います。
// リセットは語ごとに個別のパッチとして永続化します。1件の失敗が他を
// 巻き込まない (all-or-nothing にしない) ためです。
func (s *Syncer) CheckAndResetLearned(ctx context.Context) bool {
	if !progress.AllLearned(s.store.All()) {
		return false
	}

	words := s.store.LearnedWords()
	for _, w := range words {
		patch := progress.ResetPatch(w.Status)
		s.store.UpsertStatus(w.ID, patch)
		s.queue.EnqueueStatus(w.ID, patch)
	}
	s.mirrorCache()

	s.logger.Info("All words learned, reset learned status", "count", len(words))
	return true
}

// SaveAll は単語リスト全体をリモートへ書き戻します。
// 実行中の多重呼び出しは no-op (全量書き込み同士の競走を防ぐガード)。
func (s *Syncer) SaveAll(ctx context.Context) error {
	if !s.saving.CompareAndSwap(false, true) {
		s.logger.Debug("Save already in flight, ignoring")
		return nil
	}
	defer s.saving.Store(false)

	words := s.store.All()
	if err := s.remote.SaveWords(ctx, words); err != nil {
		s.logger.Error("Failed to save words to remote", "error", err)
		return model.NewAppError("SAVE_FAILED", "単語リストの保存に失敗しました。", "", err)
	}

	s.mirrorCache()
	s.logger.Info("Saved words to remote", "count", len(words))
	return nil
}

// MarkLearned は習得フラグを直接設定します (ドリル外の手動操作)。
func (s *Syncer) MarkLearned(ctx context.Context, wordID int, learned bool) {
	s.applyFlag(wordID, model.StatusPatch{Learned: &learned})
}

// MarkForRecite は誤答セットへの出し入れを直接行います。
func (s *Syncer) MarkForRecite(ctx context.Context, wordID int, recite bool) {
	s.applyFlag(wordID, model.StatusPatch{Recite: &recite})
}

// MarkImportant は重要フラグを設定します。遷移関数はこのフラグに触りません。
func (s *Syncer) MarkImportant(ctx context.Context, wordID int, important bool) {
	s.applyFlag(wordID, model.StatusPatch{Important: &important})
}

func (s *Syncer) applyFlag(wordID int, patch model.StatusPatch) {
	if !s.store.UpsertStatus(wordID, patch) {
		return
	}
	s.queue.EnqueueStatus(wordID, patch)
	s.mirrorCache()
}

// UseTranslation は訳語の used フラグを立て、リモートへ非同期で書き戻します。
func (s *Syncer) UseTranslation(ctx context.Context, wordID, translationIndex int) {
	if !s.store.MarkTranslationUsed(wordID, translationIndex) {
		return
	}
	s.queue.EnqueueTranslationUsed(wordID, translationIndex)
	s.mirrorCache()
}

// ClearCache はローカルキャッシュを明示的に無効化します。
func (s *Syncer) ClearCache() {
	if err := s.cache.Clear(); err != nil {
		s.logger.Warn("Cache clear failed", "error", err)
		return
	}
	s.mu.Lock()
	s.lastSync = time.Time{}
	s.mu.Unlock()
}

// mirrorCache は現在のストア内容でキャッシュスナップショットを作り直します。
// 失敗は記録するだけで伝播しません。
func (s *Syncer) mirrorCache() {
	words := s.store.All()
	phonetics := make(map[int]string, len(words))
	for _, w := range words {
		if w.Phonetic != "" {
			phonetics[w.ID] = w.Phonetic
		}
	}
	if err := s.cache.SaveSnapshot(words, phonetics, s.now()); err != nil {
		s.logger.Warn("Cache mirror failed, ignoring", "error", err)
	}
}

func (s *Syncer) setLoadErr(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

// Err は終端のロードエラー (フォールバックまで尽きた場合) を返します。
func (s *Syncer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *Syncer) Loading() bool {
	return s.loading.Load()
}

func (s *Syncer) Saving() bool {
	return s.saving.Load()
}

// LastSyncTime は最後にリモートまたはキャッシュと同期できた時刻です。
func (s *Syncer) LastSyncTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// IrregularWord は不規則動詞の変化形を引きます。大文字小文字は無視。
func (s *Syncer) IrregularWord(word string) (model.IrregularWord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	iw, ok := s.irregular[strings.ToLower(word)]
	return iw, ok
}

// Close はキューの最終フラッシュまで面倒を見ます。
func (s *Syncer) Close() {
	s.queue.Stop()
}
