package websocket

import (
	"context"
	"log"
	"net/http"
	"time"

	"contrahub/controllers"
	"contrahub/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event types sent over the pipeline feed, mirroring the UI states
const (
	EventFetching   = "fetching"
	EventGenerating = "generating"
	EventDisplaying = "displaying"
	EventFailed     = "failed"
)

var pipelineUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PipelineEvent is one status update for a pipeline run
type PipelineEvent struct {
	Type      string      `json:"type"`
	RunID     string      `json:"runId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type pipelineRequest struct {
	Subreddit  string `json:"subreddit"`
	Sort       string `json:"sort"`
	TimeFilter string `json:"t"`
	Limit      int    `json:"limit"`
	Index      int    `json:"index"`
}

var (
	forum    controllers.ForumFetcher
	analyzer controllers.Analyzer
)

// InitPipelineFeed wires the websocket feed to its service instances
func InitPipelineFeed(f controllers.ForumFetcher, a controllers.Analyzer) {
	forum = f
	analyzer = a
}

// PipelineFeedHandler upgrades the connection and runs one full pipeline per
// received request, streaming state transitions back to the page. Requests
// are handled one at a time; the connection stays open between runs.
func PipelineFeedHandler(c *gin.Context) {
	conn, err := pipelineUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Error upgrading WebSocket:", err)
		return
	}
	defer conn.Close()

	for {
		var req pipelineRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Pipeline feed read error: %v", err)
			}
			return
		}

		runPipeline(conn, req)
	}
}

func runPipeline(conn *websocket.Conn, req pipelineRequest) {
	runID := uuid.NewString()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if req.Subreddit == "" {
		req.Subreddit = "changemyview"
	}
	if req.Limit <= 0 {
		req.Limit = 1
	}

	sendEvent(conn, EventFetching, runID, nil)

	posts, err := forum.FetchPosts(ctx, req.Subreddit, req.Sort, req.TimeFilter, req.Limit)
	if err != nil {
		sendEvent(conn, EventFailed, runID, gin.H{"error": services.UserMessage(err)})
		return
	}

	index := req.Index
	if index < 0 || index >= len(posts) {
		index = 0
	}
	post := posts[index]

	sendEvent(conn, EventGenerating, runID, gin.H{"post": post})

	analysis, err := analyzer.Analyze(ctx, post)
	if err != nil {
		sendEvent(conn, EventFailed, runID, gin.H{"error": services.UserMessage(err)})
		return
	}

	sendEvent(conn, EventDisplaying, runID, gin.H{"post": post, "analysis": analysis})
}

func sendEvent(conn *websocket.Conn, eventType, runID string, payload interface{}) {
	event := PipelineEvent{
		Type:      eventType,
		RunID:     runID,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(event); err != nil {
		log.Printf("Error sending %s event: %v", eventType, err)
	}
}
