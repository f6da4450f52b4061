package translate

import (
	"context"
	"fmt"
)

// Provider is one translation backend. Complete takes a fully built prompt
// and returns the raw model text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

const translatorSystemPrompt = "You are a professional translator specializing in technical and conversational content."

// translationPrompt asks for a Japanese rendering of a conversation title.
// Both providers share the same prompt.
func translationPrompt(title string) string {
	return fmt.Sprintf(`Please translate the following conversation title to natural Japanese.

Requirements:
- Keep it concise and clear
- Use appropriate Japanese technical terms
- Maintain the original meaning
- Make it suitable for a knowledge management system

Original title: %q

Respond with only the Japanese translation, no explanations.`, title)
}

// containsJapanese reports whether text already carries hiragana, katakana,
// or CJK ideograph characters.
func containsJapanese(text string) bool {
	for _, r := range text {
		if (r >= '぀' && r <= 'ゟ') ||
			(r >= '゠' && r <= 'ヿ') ||
			(r >= '一' && r <= '龯') {
			return true
		}
	}
	return false
}
