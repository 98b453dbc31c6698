package request

import (
	"encoding/json"

	"github.com/Guyuepp/go-clean-tweets/domain"
)

// ID is a tweet id as sent by clients, either a JSON string or a JSON number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type Tweet struct {
	User    string `json:"user" form:"user" binding:"required,notblank"`
	Content string `json:"content" form:"content" binding:"required,notblank"`
}

// ToDomain: Request -> Domain
func (r *Tweet) ToDomain() domain.Tweet {
	return domain.Tweet{
		UserID:  r.User,
		Content: r.Content,
	}
}

type Like struct {
	UserID  string `json:"userId" form:"userId" binding:"required,notblank"`
	TweetID ID     `json:"tweetId" form:"tweetId" binding:"required,notblank"`
}
