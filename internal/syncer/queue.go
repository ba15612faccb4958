// internal/syncer/queue.go
package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"go_5_vocab_drill/internal/model"
	"go_5_vocab_drill/internal/remote"
)

// Queue はリモートへの書き戻しを受け持つ有界リトライキューです。
// ローカルの楽観更新は即時、リモート反映はこのキュー経由の非同期で、
// 失敗してもUI側には伝播しません (ログに残すのみ)。
//
// エントリは (entity, id) 単位で持ち、同じキーへの新しいパッチは
// 古いパッチに合流します。上限を超えたら最も古いキーを捨て、
// 試行回数が上限に達したエントリも捨てます。どちらも記録されるので、
// ここが将来リトライ方針を強化するときの差し替え点になります。
type Queue struct {
	remote      remote.RemoteDataSource
	logger      *slog.Logger
	limit       int
	maxAttempts int

	mu      sync.Mutex
	entries map[queueKey]*queueEntry
	order   []queueKey

	scheduler *gocron.Scheduler
}

type queueKey struct {
	entity string // "status" | "translation"
	id     int
	index  int // entity=translation のときの訳語インデックス
}

type queueEntry struct {
	key      queueKey
	patch    model.StatusPatch // entity=status
	attempts int
}

func NewQueue(source remote.RemoteDataSource, limit, maxAttempts int, logger *slog.Logger) *Queue {
	return &Queue{
		remote:      source,
		logger:      logger,
		limit:       limit,
		maxAttempts: maxAttempts,
		entries:     make(map[queueKey]*queueEntry),
	}
}

// Start はフラッシュの定期実行を開始します。
func (q *Queue) Start(interval time.Duration) {
	q.scheduler = gocron.NewScheduler(time.UTC)
	q.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		q.Flush(ctx)
	})
	q.scheduler.StartAsync()
}

// Stop は最後のフラッシュを試みてからスケジューラを止めます。
func (q *Queue) Stop() {
	if q.scheduler != nil {
		q.scheduler.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	q.Flush(ctx)
}

// EnqueueStatus は1語の状態パッチを積みます。同じ語のパッチは合流します。
func (q *Queue) EnqueueStatus(wordID int, patch model.StatusPatch) {
	if patch.IsZero() {
		return
	}
	q.enqueue(queueKey{entity: "status", id: wordID}, patch)
}

// EnqueueTranslationUsed は訳語の used フラグの書き戻しを積みます。
func (q *Queue) EnqueueTranslationUsed(wordID, translationIndex int) {
	q.enqueue(queueKey{entity: "translation", id: wordID, index: translationIndex}, model.StatusPatch{})
}

func (q *Queue) enqueue(key queueKey, patch model.StatusPatch) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if e, ok := q.entries[key]; ok {
		e.patch = e.patch.Merge(patch)
		return
	}

	if len(q.order) >= q.limit {
		oldest := q.order[0]
		q.order = q.order[1:]
		delete(q.entries, oldest)
		q.logger.Warn("Sync queue full, dropping oldest entry",
			"entity", oldest.entity, "id", oldest.id)
	}

	q.entries[key] = &queueEntry{key: key, patch: patch}
	q.order = append(q.order, key)
}

// Len は滞留中のエントリ数を返します。
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Flush は滞留エントリを一括で取り出してリモートに反映します。
// 失敗したエントリは試行回数を進めて積み直します (上限到達で破棄)。
// フラッシュ中に積まれた新しいパッチは、積み直し時に失敗分へ合流します。
func (q *Queue) Flush(ctx context.Context) {
	q.mu.Lock()
	if len(q.order) == 0 {
		q.mu.Unlock()
		return
	}
	batch := make([]*queueEntry, 0, len(q.order))
	for _, key := range q.order {
		batch = append(batch, q.entries[key])
	}
	q.entries = make(map[queueKey]*queueEntry)
	q.order = q.order[:0]
	q.mu.Unlock()

	for _, e := range batch {
		var err error
		switch e.key.entity {
		case "status":
			err = q.remote.PatchStatus(ctx, e.key.id, e.patch)
		case "translation":
			idx := e.key.index
			err = q.remote.BatchUpdate(ctx,
				[]model.WordUpdate{{ID: e.key.id, TranslationIndex: &idx}}, nil)
		}

		if err == nil {
			continue
		}

		e.attempts++
		if e.attempts >= q.maxAttempts {
			q.logger.Error("Giving up on remote sync entry",
				"entity", e.key.entity, "id", e.key.id,
				"attempts", e.attempts, "error", err)
			continue
		}

		q.logger.Warn("Remote sync failed, will retry",
			"entity", e.key.entity, "id", e.key.id,
			"attempts", e.attempts, "error", err)
		q.requeue(e)
	}
}

func (q *Queue) requeue(e *queueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if newer, ok := q.entries[e.key]; ok {
		// フラッシュ中に同じキーへ積まれたパッチが優先
		newer.patch = e.patch.Merge(newer.patch)
		newer.attempts = e.attempts
		return
	}
	if len(q.order) >= q.limit {
		q.logger.Warn("Sync queue full, dropping failed entry",
			"entity", e.key.entity, "id", e.key.id)
		return
	}
	q.entries[e.key] = e
	q.order = append(q.order, e.key)
}
