package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contrahub/models"
	"contrahub/services"

	"github.com/gin-gonic/gin"
)

type fakeForum struct {
	posts []models.Post
	err   error
}

func (f *fakeForum) FetchPosts(ctx context.Context, subreddit, sort, timeFilter string, limit int) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

type fakeAnalyzer struct {
	analysis *models.Analysis
	err      error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, post models.Post) (*models.Analysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

type fakeReplier struct {
	gotPostID string
	gotText   string
	err       error
}

func (f *fakeReplier) PostReply(ctx context.Context, postID, text string) error {
	f.gotPostID = postID
	f.gotText = text
	return f.err
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/posts", ListPostsHandler)
	router.POST("/api/analyze", AnalyzePostHandler)
	router.POST("/api/reply", ReplyHandler)
	return router
}

func TestListPostsHandlerReturnsPosts(t *testing.T) {
	InitPipelineControllers(&fakeForum{posts: []models.Post{
		{ID: "abc123", Title: "CMV: X", Body: "...", Author: "poster"},
	}}, &fakeAnalyzer{}, &fakeReplier{})
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts?subreddit=changemyview&sort=hot", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Posts []models.Post `json:"posts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Posts) != 1 || resp.Posts[0].ID != "abc123" {
		t.Errorf("Expected the fetched post, got %+v", resp.Posts)
	}
}

func TestListPostsHandlerNotFound(t *testing.T) {
	InitPipelineControllers(&fakeForum{
		err: services.NewAPIError(services.ErrNotFound, "No posts found", nil),
	}, &fakeAnalyzer{}, &fakeReplier{})
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts?subreddit=emptysub", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No posts found") {
		t.Errorf("Expected user-facing message, got %s", w.Body.String())
	}
}

func TestListPostsHandlerInvalidLimit(t *testing.T) {
	InitPipelineControllers(&fakeForum{}, &fakeAnalyzer{}, &fakeReplier{})
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts?limit=zero", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestAnalyzePostHandlerReturnsAnalysis(t *testing.T) {
	analysis := &models.Analysis{
		Argument: models.Argument{MainPosition: "X", Rationale: []string{"Y"}},
		CounterArgument: models.CounterArgument{
			SourcePostID: "abc123",
			Text:         "Counter: ...",
		},
	}
	InitPipelineControllers(&fakeForum{}, &fakeAnalyzer{analysis: analysis}, &fakeReplier{})
	router := setupTestRouter()

	body := `{"id":"abc123","title":"CMV: X","body":"..."}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Analysis models.Analysis `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Analysis.CounterArgument.Text != "Counter: ..." {
		t.Errorf("Expected counter text, got %q", resp.Analysis.CounterArgument.Text)
	}
	if resp.Analysis.CounterArgument.SourcePostID != "abc123" {
		t.Errorf("Expected counter tied to source post, got %q", resp.Analysis.CounterArgument.SourcePostID)
	}
}

func TestAnalyzePostHandlerMissingFields(t *testing.T) {
	InitPipelineControllers(&fakeForum{}, &fakeAnalyzer{}, &fakeReplier{})
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"body":"no id or title"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestAnalyzePostHandlerModelFailure(t *testing.T) {
	InitPipelineControllers(&fakeForum{}, &fakeAnalyzer{
		err: services.NewAPIError(services.ErrRateLimit, "OpenAI rate limit exceeded", nil),
	}, &fakeReplier{})
	router := setupTestRouter()

	body := `{"id":"abc123","title":"CMV: X"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "OpenAI rate limit exceeded") {
		t.Errorf("Expected user-facing message, got %s", w.Body.String())
	}
}

func TestReplyHandlerSubmitsReply(t *testing.T) {
	replier := &fakeReplier{}
	InitPipelineControllers(&fakeForum{}, &fakeAnalyzer{}, replier)
	router := setupTestRouter()

	body := `{"postId":"abc123","text":"Counter: ..."}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if replier.gotPostID != "abc123" || replier.gotText != "Counter: ..." {
		t.Errorf("Expected reply forwarded to Reddit client, got %q %q", replier.gotPostID, replier.gotText)
	}
}
