// internal/model/status.go
package model

// Status は単語1語ぶんの学習状態です。エンジンが管理する唯一の可変データ。
// LastReview は日付のみのISO文字列 (YYYY-MM-DD)、NextReviewTS はUnix秒。
type Status struct {
	Learned      bool   `json:"learned"`
	Recite       bool   `json:"recite"`
	Important    bool   `json:"important"`
	ErrorCount   int    `json:"error_count"`
	TrueCount    int    `json:"true_count"`
	LearnedCount int    `json:"learned_count"`
	LastReview   string `json:"last_review"`
	NextReviewTS int64  `json:"next_review_ts"`
}

// DefaultStatus は未学習単語の初期状態を返します。
// バックエンド側の find-or-create が作るデフォルトと同じ形。
func DefaultStatus() Status {
	return Status{
		Learned:      false,
		Recite:       false,
		Important:    false,
		ErrorCount:   0,
		TrueCount:    0,
		LearnedCount: 0,
		LastReview:   "",
		NextReviewTS: 0,
	}
}

// StatusPatch は Status への部分更新です。nil のフィールドは「変更なし」。
// PATCH /user-status/{id} のリクエストボディそのものでもあります。
type StatusPatch struct {
	Learned      *bool   `json:"learned,omitempty"`
	Recite       *bool   `json:"recite,omitempty"`
	Important    *bool   `json:"important,omitempty"`
	ErrorCount   *int    `json:"error_count,omitempty"`
	TrueCount    *int    `json:"true_count,omitempty"`
	LearnedCount *int    `json:"learned_count,omitempty"`
	LastReview   *string `json:"last_review,omitempty"`
	NextReviewTS *int64  `json:"next_review_ts,omitempty"`
}

// Apply はパッチを Status に適用します。
func (p StatusPatch) Apply(s *Status) {
	if p.Learned != nil {
		s.Learned = *p.Learned
	}
	if p.Recite != nil {
		s.Recite = *p.Recite
	}
	if p.Important != nil {
		s.Important = *p.Important
	}
	if p.ErrorCount != nil {
		s.ErrorCount = *p.ErrorCount
	}
	if p.TrueCount != nil {
		s.TrueCount = *p.TrueCount
	}
	if p.LearnedCount != nil {
		s.LearnedCount = *p.LearnedCount
	}
	if p.LastReview != nil {
		s.LastReview = *p.LastReview
	}
	if p.NextReviewTS != nil {
		s.NextReviewTS = *p.NextReviewTS
	}
}

// Merge は newer の非nilフィールドで p を上書きした新しいパッチを返します。
// リトライキューで同一単語のパッチを合流させるために使います。
func (p StatusPatch) Merge(newer StatusPatch) StatusPatch {
	out := p
	if newer.Learned != nil {
		out.Learned = newer.Learned
	}
	if newer.Recite != nil {
		out.Recite = newer.Recite
	}
	if newer.Important != nil {
		out.Important = newer.Important
	}
	if newer.ErrorCount != nil {
		out.ErrorCount = newer.ErrorCount
	}
	if newer.TrueCount != nil {
		out.TrueCount = newer.TrueCount
	}
	if newer.LearnedCount != nil {
		out.LearnedCount = newer.LearnedCount
	}
	if newer.LastReview != nil {
		out.LastReview = newer.LastReview
	}
	if newer.NextReviewTS != nil {
		out.NextReviewTS = newer.NextReviewTS
	}
	return out
}

// IsZero はパッチが何も変更しないかどうかを返します。
func (p StatusPatch) IsZero() bool {
	return p.Learned == nil && p.Recite == nil && p.Important == nil &&
		p.ErrorCount == nil && p.TrueCount == nil && p.LearnedCount == nil &&
		p.LastReview == nil && p.NextReviewTS == nil
}
