// internal/assets/assets.go
package assets

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"go_5_vocab_drill/internal/model"
)

// クライアントに同梱する静的スナップショット。ネットワークが使えないときの
// 最後の砦で、サイドチャネルのマージもキャッシュ書き込みも行われません。
//
//go:embed word_list.json
var wordListJSON []byte

// Fallback は同梱の単語リストを返します。
// Status はネットワーク版と同じスキーマになるようデフォルトで埋めます。
func Fallback() ([]model.Word, error) {
	var words []model.Word
	if err := json.Unmarshal(wordListJSON, &words); err != nil {
		return nil, fmt.Errorf("%w: bundled word list: %v", model.ErrFormat, err)
	}
	for i := range words {
		words[i].Status = model.DefaultStatus()
	}
	return words, nil
}
