package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"contrahub/models"
	"contrahub/services"

	"github.com/gin-gonic/gin"
)

// ForumFetcher fetches posts from a subreddit listing
type ForumFetcher interface {
	FetchPosts(ctx context.Context, subreddit, sort, timeFilter string, limit int) ([]models.Post, error)
}

// Analyzer runs the extraction and counter-argument model calls for one post
type Analyzer interface {
	Analyze(ctx context.Context, post models.Post) (*models.Analysis, error)
}

// ReplyPoster submits a comment on a Reddit post
type ReplyPoster interface {
	PostReply(ctx context.Context, postID, text string) error
}

var (
	forum    ForumFetcher
	analyzer Analyzer
	replier  ReplyPoster
)

// InitPipelineControllers wires the controllers to their service instances
func InitPipelineControllers(f ForumFetcher, a Analyzer, r ReplyPoster) {
	forum = f
	analyzer = a
	replier = r
}

const analyzeTimeout = 3 * time.Minute

// ListPostsHandler fetches posts for the requested subreddit listing
func ListPostsHandler(c *gin.Context) {
	subreddit := c.DefaultQuery("subreddit", "changemyview")
	sort := c.DefaultQuery("sort", "top")
	timeFilter := c.DefaultQuery("t", "day")

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	posts, err := forum.FetchPosts(ctx, subreddit, sort, timeFilter, limit)
	if err != nil {
		log.Printf("Failed to fetch posts from r/%s: %v", subreddit, err)
		c.JSON(services.StatusForError(err), gin.H{"error": services.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// AnalyzePostHandler runs the counter-argument pipeline for the posted submission
func AnalyzePostHandler(c *gin.Context) {
	var req struct {
		ID     string `json:"id" binding:"required"`
		Title  string `json:"title" binding:"required"`
		Body   string `json:"body"`
		Author string `json:"author"`
		URL    string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	post := models.Post{
		ID:     req.ID,
		Title:  req.Title,
		Body:   req.Body,
		Author: req.Author,
		URL:    req.URL,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), analyzeTimeout)
	defer cancel()

	analysis, err := analyzer.Analyze(ctx, post)
	if err != nil {
		log.Printf("Failed to analyze post %s: %v", post.ID, err)
		c.JSON(services.StatusForError(err), gin.H{"error": services.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// ReplyHandler posts the generated counter-argument as a comment on Reddit
func ReplyHandler(c *gin.Context) {
	var req struct {
		PostID string `json:"postId" binding:"required"`
		Text   string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := replier.PostReply(ctx, req.PostID, req.Text); err != nil {
		log.Printf("Failed to post reply to %s: %v", req.PostID, err)
		c.JSON(services.StatusForError(err), gin.H{"error": services.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reply posted"})
}
