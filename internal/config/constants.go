// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "go_5_vocab_drill"
	AppVersion = "1.0.0"
)

// ローカルキャッシュのキーとTTL。キー名は旧クライアントの localStorage と同じ。
const (
	CacheKeyWords     = "words_cache"
	CacheKeyTimestamp = "words_cache_timestamp"
	CacheKeyPhonetics = "phonetics_cache"
	CacheTTL          = 5 * time.Minute
)

// 進捗遷移の固定パラメータ (Unix秒)
const (
	ReviewDelayCorrect  = 86400 // 正解: 1日後
	ReviewDelayWrong    = 300   // 不正解: 5分後
	ReciteExitThreshold = 3     // 連続正解この回数で誤答セットから抜ける
)

// リレーショナルバックエンドはクエリ結果が1リクエストあたり1000行で
// 打ち切られるため、総件数に達するまでページングします。
const FetchPageSize = 1000

// デフォルト設定値
const (
	DefaultServerPort      = ":3123"
	DefaultLogLevel        = "info"
	DefaultDataDir         = "data"
	DefaultCachePath       = "data/local_cache.db"
	DefaultBackendMode     = "rest"
	DefaultFlushInterval   = 5 * time.Second
	DefaultSyncMaxAttempts = 5
	DefaultSyncQueueLimit  = 256
	DefaultDictationTime   = 600
	DefaultDictationBatch  = 10
)
