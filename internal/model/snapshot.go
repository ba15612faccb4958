// internal/model/snapshot.go
package model

import "time"

// Snapshot はローカルキャッシュに保存する単語コレクションの断面です。
// リモートロード成功のたびに作り直され、TTLを過ぎると無効になります。
type Snapshot struct {
	Words     []Word
	Phonetics map[int]string
	Timestamp time.Time
}
