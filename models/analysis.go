package models

// Argument is the extracted position of a post, as returned by the model
type Argument struct {
	MainPosition string   `json:"main_position"`
	Rationale    []string `json:"rationale"`
}

// CounterArgument is the generated rebuttal for one fetched post
type CounterArgument struct {
	SourcePostID string `json:"sourcePostId"`
	Text         string `json:"text"`
}

// Analysis bundles both steps of a pipeline run for one post
type Analysis struct {
	Argument        Argument        `json:"argument"`
	CounterArgument CounterArgument `json:"counterArgument"`
}
