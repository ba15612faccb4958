// internal/remote/remote.go
package remote

import (
	"context"
	"fmt"
	"log/slog"

	"go_5_vocab_drill/internal/config"
	"go_5_vocab_drill/internal/model"

	"gorm.io/gorm"
)

// RemoteDataSource はリモート永続化層への統一インターフェースです。
// ファイルバックエンドのREST API (バリアントA) とマネージドなリレーショナル
// バックエンド (バリアントB) の2実装があり、構築時の設定で選びます。
// 呼び出し先のどこかでバックエンド名の文字列比較をしてはいけません。
//
// PatchStatus / BatchUpdate はベストエフォートです。失敗してもローカルの
// 楽観更新は巻き戻しません。同じ (user, word) を2セッションが同時に
// パッチした場合の競合検出は行わず、last-write-wins です (既知の未解決点。
// バージョン/ETag方式にするかは製品判断待ち)。
type RemoteDataSource interface {
	Name() string

	// FetchWords は全量スナップショットを返します。部分的な成功はありません。
	// 失敗は ErrNetwork か ErrFormat に分類されます。
	FetchWords(ctx context.Context) ([]model.Word, error)

	// サイドチャネル。いずれも任意で、空の結果は正常です。
	FetchPhonetics(ctx context.Context) (map[int]string, error)
	FetchUserStatus(ctx context.Context) (map[int]model.Status, error)
	FetchIrregularWords(ctx context.Context) ([]model.IrregularWord, error)

	PatchStatus(ctx context.Context, wordID int, patch model.StatusPatch) error
	BatchUpdate(ctx context.Context, wordUpdates []model.WordUpdate, statusUpdates []model.StatusUpdate) error

	// SaveWords は単語リスト全体の書き戻しです。バリアントAでは
	// ドキュメント全置換、バリアントBでは可変部分の upsert になります。
	SaveWords(ctx context.Context, words []model.Word) error
}

// New は設定に応じたデータソースを構築します。
// リレーショナルの場合は呼び出し側が開いた *gorm.DB を受け取ります。
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (RemoteDataSource, error) {
	switch cfg.Backend.Mode {
	case "rest":
		if cfg.Backend.APIBaseURL == "" {
			return nil, model.ErrInvalidInput
		}
		return NewRESTSource(cfg.Backend.APIBaseURL, logger), nil
	case "relational":
		// テストは開いた接続を渡す。本番は設定のURLからここで開く。
		if db == nil {
			if cfg.Backend.DatabaseURL == "" {
				return nil, model.ErrInvalidInput
			}
			var err error
			db, err = NewDB(cfg.Backend.DatabaseURL, logger)
			if err != nil {
				return nil, err
			}
		}
		return NewRelationalSource(db, cfg.Backend.UserID, logger)
	default:
		return nil, fmt.Errorf("%w: unknown backend mode %q", model.ErrInvalidInput, cfg.Backend.Mode)
	}
}
