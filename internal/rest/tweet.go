package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-clean-tweets/domain"
	"github.com/Guyuepp/go-clean-tweets/internal/rest/middleware"
	"github.com/Guyuepp/go-clean-tweets/internal/rest/request"
	"github.com/Guyuepp/go-clean-tweets/internal/rest/response"
)

// TweetHandler represent the httphandler for tweets
type TweetHandler struct {
	Service domain.TweetUsecase
}

func NewTweetHandler(svc domain.TweetUsecase) *TweetHandler {
	if err := request.RegisterValidations(); err != nil {
		logrus.Errorf("failed to register binding rules: %v", err)
	}
	return &TweetHandler{
		Service: svc,
	}
}

// Register mounts the tweet routes on r.
func (h *TweetHandler) Register(r gin.IRouter) {
	g := r.Group("/tweets")
	g.GET("", h.FetchTweets)
	g.POST("/add", h.Store)
	g.DELETE("/delete/:tweetId", h.Delete)
	g.POST("/like", h.ToggleLike)
	g.GET("/hashtags", h.FetchHashtags)
	g.GET("/hashtags/:tag", h.FetchByHashtag)
}

// FetchTweets returns the whole feed, newest first
func (h *TweetHandler) FetchTweets(c *gin.Context) {
	list, err := h.Service.Fetch(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": true,
		"tweets": response.NewTweetsFromDomain(list),
	})
}

// Store will store the tweet by given request body
func (h *TweetHandler) Store(c *gin.Context) {
	var req request.Tweet
	if err := c.ShouldBind(&req); err != nil {
		middleware.Logger(c).Debugf("invalid tweet body: %v", err)
		errorResponse(c, domain.ErrBadParamInput)
		return
	}

	tweet := req.ToDomain()
	if err := h.Service.Store(c.Request.Context(), &tweet); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  true,
		"tweetId": response.FormatID(tweet.ID),
	})
}

// Delete will delete the tweet by given param
func (h *TweetHandler) Delete(c *gin.Context) {
	id, err := parseTweetID(c.Param("tweetId"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": true})
}

// ToggleLike flips the caller's membership in the tweet's likers
func (h *TweetHandler) ToggleLike(c *gin.Context) {
	var req request.Like
	if err := c.ShouldBind(&req); err != nil {
		middleware.Logger(c).Debugf("invalid like body: %v", err)
		errorResponse(c, domain.ErrBadParamInput)
		return
	}

	id, err := parseTweetID(string(req.TweetID))
	if err != nil {
		errorResponse(c, err)
		return
	}

	likers, err := h.Service.ToggleLike(c.Request.Context(), id, req.UserID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": true,
		"likers": response.NewLikers(likers),
	})
}

// FetchHashtags returns every hashtag with its occurrence count
func (h *TweetHandler) FetchHashtags(c *gin.Context) {
	rank, err := h.Service.FetchHashtags(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":   true,
		"hashtags": response.NewHashtagsFromDomain(rank),
	})
}

// FetchByHashtag returns the tweets mentioning #tag
func (h *TweetHandler) FetchByHashtag(c *gin.Context) {
	list, err := h.Service.FetchByHashtag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": true,
		"tweets": response.NewTweetsFromDomain(list),
	})
}

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"result": true})
}

// NoRoute answers unknown paths with the common error body.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, response.NewError(response.MsgRouteMissing))
}

// parseTweetID maps an id that can never exist to NotFound, an absent one to
// bad input.
func parseTweetID(raw string) (int64, error) {
	if raw == "" {
		return 0, domain.ErrBadParamInput
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func errorResponse(c *gin.Context, err error) {
	status, msg := getStatusCode(err)
	if status >= http.StatusInternalServerError {
		middleware.Logger(c).Error(err)
	}
	c.AbortWithStatusJSON(status, response.NewError(msg))
}

func getStatusCode(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest, response.MsgBadInput
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, response.MsgNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, response.MsgUserNotFound
	case errors.Is(err, domain.ErrInternalServerError):
		return http.StatusInternalServerError, response.MsgInternal
	default:
		return http.StatusInternalServerError, response.MsgInternal
	}
}
