package services

import (
	"fmt"
	"strings"

	"contrahub/models"
)

const extractionSystemPrompt = `You are a helpful assistant.
You will be presented with a post from the subreddit r/changemyview and your
task is to extract the main argument of the poster, as well as the key rationale
that they feel supports their position.
Return your response in the following JSON format:
{
    "main_position": "The main argument of the poster",
    "rationale": ["Point 1", "Point 2", "Point 3"]
}`

const counterSystemPrompt = `You are a helpful assistant.
You will be presented with an argument from the subreddit r/changemyview along
with the central rationale presented to support that argument.
Your task is to be extremely persuasive and argue against that position.
Be polite but make sure to address each point of rationale to counter the main argument.
Use evidence-based arguments as much as possible and provide realistic alternatives.
Structure and style your response like it is a post for the r/changemyview subreddit.`

// ExtractionPrompt builds the system and user messages asking the model to
// pull the main position and rationale out of a post. The post's title and
// body are embedded verbatim.
func ExtractionPrompt(post models.Post) (string, string) {
	return extractionSystemPrompt, fmt.Sprintf("TITLE: %s.\nTEXT: %s", post.Title, post.Body)
}

// CounterPrompt builds the system and user messages asking the model to argue
// against the extracted position, with the rationale as a numbered list.
func CounterPrompt(argument models.Argument) (string, string) {
	var rationale strings.Builder
	for i, point := range argument.Rationale {
		rationale.WriteString(fmt.Sprintf("%d. %s", i+1, point))
		if i < len(argument.Rationale)-1 {
			rationale.WriteString("\n")
		}
	}
	user := fmt.Sprintf("MAIN ARGUMENT: %s.\nRATIONALE: %s", argument.MainPosition, rationale.String())
	return counterSystemPrompt, user
}
