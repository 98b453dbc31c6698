package domain

// HashtagCount is one row of the hashtag ranking. It is derived from tweet
// content on demand and never persisted in the tweet store.
type HashtagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}
