package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"contrahub/config"
	"contrahub/models"
)

const (
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	defaultOauthURL = "https://oauth.reddit.com"
)

// RedditClient talks to the Reddit API as a script app (password grant)
type RedditClient struct {
	ClientId     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string

	TokenURL   string
	BaseURL    string
	HTTPClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewRedditClient builds a client from the app configuration
func NewRedditClient(cfg *config.Config) *RedditClient {
	return &RedditClient{
		ClientId:     cfg.Reddit.ClientId,
		ClientSecret: cfg.Reddit.ClientSecret,
		Username:     cfg.Reddit.Username,
		Password:     cfg.Reddit.Password,
		UserAgent:    cfg.Reddit.UserAgent,
		TokenURL:     defaultTokenURL,
		BaseURL:      defaultOauthURL,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchPosts returns up to limit self posts from the given subreddit listing.
// sort is one of hot, new, rising, top; anything else behaves as top.
// timeFilter only applies to the top listing (day, week, month, year, all).
func (c *RedditClient) FetchPosts(ctx context.Context, subreddit, sort, timeFilter string, limit int) ([]models.Post, error) {
	if subreddit == "" {
		return nil, NewAPIError(ErrNotFound, "No posts found", fmt.Errorf("empty subreddit name"))
	}
	if limit <= 0 {
		limit = 5
	}

	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	listing := normalizeSort(sort)
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("raw_json", "1")
	if listing == "top" && timeFilter != "" {
		query.Set("t", timeFilter)
	}

	endpoint := fmt.Sprintf("%s/r/%s/%s.json?%s", c.BaseURL, url.PathEscape(subreddit), listing, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewAPIError(ErrNetwork, "Reddit is unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewAPIError(ErrNetwork, "Failed to read Reddit response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, redditStatusError(resp.StatusCode, body)
	}

	var listingData struct {
		Data struct {
			Children []struct {
				Data struct {
					ID        string `json:"id"`
					Title     string `json:"title"`
					Selftext  string `json:"selftext"`
					Author    string `json:"author"`
					Permalink string `json:"permalink"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listingData); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	posts := make([]models.Post, 0, len(listingData.Data.Children))
	for _, child := range listingData.Data.Children {
		posts = append(posts, models.Post{
			ID:     child.Data.ID,
			Title:  child.Data.Title,
			Body:   child.Data.Selftext,
			Author: child.Data.Author,
			URL:    "https://www.reddit.com" + child.Data.Permalink,
		})
	}

	if len(posts) == 0 {
		return nil, NewAPIError(ErrNotFound, "No posts found", nil)
	}
	return posts, nil
}

// PostReply submits text as a comment on the post with the given id
func (c *RedditClient) PostReply(ctx context.Context, postID, text string) error {
	if postID == "" || text == "" {
		return fmt.Errorf("post id and reply text are required")
	}

	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("thing_id", "t3_"+postID)
	form.Set("text", text)
	form.Set("api_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/comment", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewAPIError(ErrNetwork, "Reddit is unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewAPIError(ErrNetwork, "Failed to read Reddit response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return redditStatusError(resp.StatusCode, body)
	}
	return nil
}

// ensureToken returns a valid bearer token, fetching a new one when the
// cached token is missing or about to expire
func (c *RedditClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	if c.ClientId == "" || c.ClientSecret == "" {
		return "", NewAPIError(ErrAuth, "Reddit credentials are missing", nil)
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.Username)
	form.Set("password", c.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.ClientId, c.ClientSecret)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", NewAPIError(ErrNetwork, "Reddit is unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewAPIError(ErrNetwork, "Failed to read Reddit response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", redditStatusError(resp.StatusCode, body)
	}

	var tokenData struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(body, &tokenData); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenData.AccessToken == "" {
		return "", NewAPIError(ErrAuth, "Reddit rejected the credentials", fmt.Errorf("token error: %s", tokenData.Error))
	}

	c.accessToken = tokenData.AccessToken
	// Refresh a minute early so in-flight requests never carry a stale token
	c.tokenExpiry = time.Now().Add(time.Duration(tokenData.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

func normalizeSort(sort string) string {
	switch strings.ToLower(sort) {
	case "hot", "new", "rising":
		return strings.ToLower(sort)
	default:
		return "top"
	}
}

func redditStatusError(status int, body []byte) error {
	if kind, ok := kindFromStatus(status); ok {
		switch kind {
		case ErrAuth:
			return NewAPIError(ErrAuth, "Reddit rejected the credentials", fmt.Errorf("status %d: %s", status, body))
		case ErrRateLimit:
			return NewAPIError(ErrRateLimit, "Reddit rate limit exceeded", fmt.Errorf("status %d", status))
		case ErrNotFound:
			return NewAPIError(ErrNotFound, "No posts found", fmt.Errorf("status %d", status))
		case ErrNetwork:
			return NewAPIError(ErrNetwork, "Reddit is unavailable", fmt.Errorf("status %d: %s", status, body))
		}
	}
	return fmt.Errorf("unexpected Reddit response: status %d: %s", status, body)
}
