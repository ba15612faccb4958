// internal/model/dto.go
package model

// ファイルバックエンドAPI (バリアントA) のドキュメント形とDTO。

// UserStatusEntry はユーザー状態ドキュメント内の1語ぶんのエントリです。
type UserStatusEntry struct {
	ID     int    `json:"id"`
	Status Status `json:"status"`
}

// UserStatusDocument は user_word_status.json 全体の形です。
type UserStatusDocument struct {
	Words []UserStatusEntry `json:"words"`
}

// WordUpdate は一括更新の単語側レッグ (訳語の used フラグ) です。
// TranslationIndex が nil の場合そのエントリは無視されます。
type WordUpdate struct {
	ID               int  `json:"id"`
	TranslationIndex *int `json:"translationIndex"`
}

// StatusUpdate は一括更新の状態側レッグです。
type StatusUpdate struct {
	ID     int         `json:"id"`
	Status StatusPatch `json:"status"`
}

// BatchUpdateRequest は POST /batch-update のリクエストボディです。
// どちらのレッグも省略可。原子性は1回のバックエンド呼び出しの中だけ。
type BatchUpdateRequest struct {
	WordUpdates   []WordUpdate   `json:"wordUpdates"`
	StatusUpdates []StatusUpdate `json:"statusUpdates"`
}

// PatchPhoneticRequest は旧互換の PATCH /words/{id}/phonetic のボディです。
type PatchPhoneticRequest struct {
	Phonetic string `json:"phonetic" validate:"required"`
}

// DictationSettings はディクテーション画面の設定値です。
type DictationSettings struct {
	TimeLeft  int `json:"time_left" validate:"required,min=1"`
	BatchSize int `json:"batch_size" validate:"required,min=1"`
}

// Settings は settings.json 全体の形です。
type Settings struct {
	Dictation DictationSettings `json:"dictation"`
}

// SaveResult は書き込み系エンドポイントの成功レスポンスです。
type SaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
