// internal/model/word.go
package model

// Translation は単語の訳語1件を表します。
// Used はディクテーションで出題済みかどうかのフラグで、
// エンジンが true に倒すことはあっても初期化はしません（コンテンツ側の責務）。
type Translation struct {
	Type        string `json:"type"`
	Translation string `json:"translation"`
	Used        bool   `json:"used"`
}

// Info は単語の補足情報（語法コラムなど）です。エンジンからは不透明な内容。
type Info struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Items []string `json:"items"`
}

// Word は学習対象の単語エンティティです。
// コンテンツ系フィールドはコンテンツ側から供給される不変データで、
// エンジンが書き換えるのは Status と Translations[i].Used だけです。
type Word struct {
	ID           int           `json:"id"`
	Word         string        `json:"word"`
	Phonetic     string        `json:"phonetic"`
	Translations []Translation `json:"translations"`
	Examples     []string      `json:"examples"`
	Expand       []string      `json:"expand"`
	Phrase       []string      `json:"phrase"`
	Antonym      string        `json:"antonym"`
	Info         Info          `json:"info"`
	Status       Status        `json:"status"`
}

// IrregularWord は不規則動詞の変化形アノテーションです。
// サイドチャネルとして読み込まれ、Word にはマージせず別引きのテーブルで保持します。
type IrregularWord struct {
	Word       string `json:"word"`
	Past       string `json:"past"`
	Participle string `json:"participle"`
	Meaning    string `json:"meaning"`
}
