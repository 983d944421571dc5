package models

// Post represents a single Reddit submission
type Post struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Author string `json:"author"`
	URL    string `json:"url"`
}
