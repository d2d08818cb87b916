package generation

import (
	"fmt"
	"strings"
)

// BuildPrompt собирает текст промпта по виду контента, тону и целевому
// объему. Шаблоны нарочно короткие: детали форматирования оставлены
// провайдеру.
func BuildPrompt(req Request) string {
	var b strings.Builder

	switch req.Kind {
	case KindComment:
		b.WriteString("Write a LinkedIn comment replying to the following post:\n")
	case KindTemplate:
		b.WriteString("Write a reusable LinkedIn post template about the following topic:\n")
	case KindProfileSummary:
		b.WriteString("Write a LinkedIn profile summary based on the following background:\n")
	default:
		b.WriteString("Write a LinkedIn post about the following topic:\n")
	}
	b.WriteString(req.Content)

	if req.Tone != "" {
		fmt.Fprintf(&b, "\nTone: %s.", req.Tone)
	}
	if req.WordCount > 0 {
		fmt.Fprintf(&b, "\nTarget length: about %d words.", req.WordCount)
	}
	b.WriteString("\nReturn only the finished text without any preamble.")
	return b.String()
}

// maxOutputTokens грубая оценка лимита токенов от целевого объема в словах.
func maxOutputTokens(wordCount int) int32 {
	if wordCount <= 0 {
		return 1024
	}
	// ~2 токена на слово плюс запас
	return int32(wordCount*2 + 128)
}
