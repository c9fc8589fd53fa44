package telegram

import (
	"fmt"
	"strings"
	"time"

	"wealth-signals/internal/entity"
	"wealth-signals/pkg/utils"
)

const maxMessageLen = 4090

// FormatSignalDigest formats signals into Markdown messages for Telegram,
// splitting the digest so that no part exceeds the message size limit.
func FormatSignalDigest(signals []entity.Signal, at time.Time) []string {
	if len(signals) == 0 {
		return []string{fmt.Sprintf("📭 *No signals available* (%s)", utils.PrettyDate(at))}
	}

	var messages []string
	var current strings.Builder
	part := 1

	startNewPart := func() {
		current.Reset()
		if part == 1 {
			current.WriteString(fmt.Sprintf("📊 *Daily Signal Digest* 📊\n%s\n\n", utils.PrettyDate(at)))
		} else {
			current.WriteString(fmt.Sprintf("---*Signal Digest Part %d*---\n\n", part))
		}
	}

	startNewPart()
	for _, s := range signals {
		entry := formatSignalEntry(s)
		if current.Len()+len(entry) > maxMessageLen {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(entry)
	}
	messages = append(messages, current.String())

	return messages
}

func formatSignalEntry(s entity.Signal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s *%s* %s\n", actionIcon(s.Action), escapeMarkdown(s.Ticker), s.Action))
	b.WriteString(fmt.Sprintf("💬 %s\n", escapeMarkdown(s.Reason)))
	b.WriteString(fmt.Sprintf("🔎 %s | 🎯 %.0f%%\n\n", escapeMarkdown(s.Source), s.Confidence*100))
	return b.String()
}

func actionIcon(a entity.Action) string {
	switch a {
	case entity.ActionBuy:
		return "🟢"
	case entity.ActionSell:
		return "🔴"
	default:
		return "🟡"
	}
}

// escapeMarkdown escapes the characters legacy Telegram Markdown treats as markup.
func escapeMarkdown(s string) string {
	return strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[").Replace(s)
}
