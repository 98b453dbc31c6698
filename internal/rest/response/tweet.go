package response

import (
	"strconv"
	"time"

	"github.com/Guyuepp/go-clean-tweets/domain"
)

const (
	MsgBadInput     = "Missing or empty fields"
	MsgNotFound     = "Tweet not found"
	MsgUserNotFound = "User not found"
	MsgRouteMissing = "Route not found"
	MsgInternal     = "Internal server error"
)

// Error is the body of every failed request.
type Error struct {
	Result bool   `json:"result"`
	Error  string `json:"error"`
}

func NewError(message string) Error {
	return Error{Result: false, Error: message}
}

type Tweet struct {
	ID      string    `json:"_id"`
	User    string    `json:"user"`
	Date    time.Time `json:"date"`
	Content string    `json:"content"`
	Likers  []string  `json:"likers"`
}

// NewTweetFromDomain: Domain -> Response
func NewTweetFromDomain(t *domain.Tweet) Tweet {
	return Tweet{
		ID:      FormatID(t.ID),
		User:    t.UserID,
		Date:    t.CreatedAt.UTC(),
		Content: t.Content,
		Likers:  NewLikers(t.Likers),
	}
}

func NewTweetsFromDomain(list []domain.Tweet) []Tweet {
	res := make([]Tweet, len(list))
	for i := range list {
		res[i] = NewTweetFromDomain(&list[i])
	}
	return res
}

// NewLikers never returns nil, likers always encode as an array.
func NewLikers(likers []string) []string {
	if likers == nil {
		return []string{}
	}
	return likers
}

type Hashtag struct {
	Hashtag string `json:"hashtag"`
	Count   int64  `json:"count"`
}

func NewHashtagsFromDomain(rank []domain.HashtagCount) []Hashtag {
	res := make([]Hashtag, len(rank))
	for i, h := range rank {
		res[i] = Hashtag{Hashtag: h.Tag, Count: h.Count}
	}
	return res
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
