// Package model はドメインモデルを定義する。
package model

import "time"

// Feed はRSS/Atomフィードを表す。
// title、subtitle、updatedは登録時の補完処理で設定される。
type Feed struct {
	ID       int64      `db:"id" json:"id"`
	URL      string     `db:"url" json:"url"`
	Title    *string    `db:"title" json:"title"`
	Subtitle *string    `db:"subtitle" json:"subtitle"`
	Updated  *time.Time `db:"updated" json:"updated"`
}

// FeedCreate はフィード登録時の入力を表す。
type FeedCreate struct {
	URL string `json:"url" validate:"required,http_url"`
}

// NewFeed は入力からまだ永続化されていないFeedを生成する。
func (c FeedCreate) NewFeed() *Feed {
	return &Feed{URL: c.URL}
}
