package utils

import (
	"github.com/pkoukk/tiktoken-go"
)

// NumTokens estimates the token count of a prompt, for sizing the completion
// budget of the generation call.
func NumTokens(text string) (int, error) {
	tkm, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0, err
	}

	return len(tkm.Encode(text, nil, nil)), nil
}
