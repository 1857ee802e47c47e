package plamo

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type completionResponse struct {
	Choices []completionChoice `json:"choices"`
}

type completionChoice struct {
	Text         *string `json:"text"`
	FinishReason string  `json:"finish_reason"`
}

// parseCompletion returns choices[0]. A missing or non-string text field is an
// error; an empty string is not.
func parseCompletion(body []byte) (completionChoice, error) {
	rsp := completionResponse{}
	if err := json.Unmarshal(body, &rsp); err != nil {
		return completionChoice{}, errors.Wrap(err, "decoding body")
	}

	if len(rsp.Choices) == 0 {
		return completionChoice{}, errors.New("no choices in response")
	}

	if rsp.Choices[0].Text == nil {
		return completionChoice{}, errors.New("choices[0].text missing")
	}

	return rsp.Choices[0], nil
}
