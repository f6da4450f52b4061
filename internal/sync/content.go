package sync

import (
	"fmt"
	"unicode"

	"github.com/tsudoi/convosync/internal/conversations"
)

const (
	// Store-side field caps, matching the record schema limits.
	propTextLimit  = 2000
	blockTextLimit = 2000
	// At most this many messages are rendered into the content body.
	maxContentMessages = 100

	truncatedBodyNotice = "\n\n[内容が長いため省略されました...]"
)

// BuildProperties maps a canonical conversation onto remote record fields.
// The translated title falls back to the original when enrichment did not
// run or did not succeed.
func BuildProperties(conv *conversations.Conversation, sourceURLBase string) Properties {
	translated := conv.TranslatedTitle
	if translated == "" {
		translated = conv.Title
	}

	return Properties{
		Title:           capRunes(conv.Title, propTextLimit),
		TranslatedTitle: capRunes(translated, propTextLimit),
		Date:            conv.CreatedAt,
		Topic:           conv.Topic,
		Status:          conv.Status,
		Summary:         capRunes(conv.Summary, propTextLimit),
		Rating:          conv.Rating,
		MessageCount:    conv.MessageCount,
		ConversationID:  conv.ID,
		SourceURL:       sourceURLBase + conv.ID,
	}
}

// BuildContent renders the conversation transcript as content blocks: a
// header, a metadata callout, then per-message header and body blocks up to
// the message cap, with a trailing notice when truncated.
func BuildContent(conv *conversations.Conversation) []Block {
	blocks := []Block{
		{Type: BlockHeading2, Text: "会話履歴"},
		{Type: BlockCallout, Text: metadataText(conv)},
	}

	messages := conv.Messages
	if len(messages) > maxContentMessages {
		messages = messages[:maxContentMessages]
	}

	for _, msg := range messages {
		blocks = append(blocks, Block{Type: BlockHeading3, Text: messageHeader(msg)})

		body := msg.Content
		if len([]rune(body)) > blockTextLimit {
			body = string([]rune(body)[:blockTextLimit]) + truncatedBodyNotice
		}
		blocks = append(blocks, Block{Type: BlockParagraph, Text: body})

		if len(msg.Attachments) > 0 {
			blocks = append(blocks, Block{
				Type: BlockBullet,
				Text: fmt.Sprintf("添付ファイル: %d個", len(msg.Attachments)),
			})
		}
	}

	if len(conv.Messages) > maxContentMessages {
		blocks = append(blocks, Block{
			Type: BlockCallout,
			Text: fmt.Sprintf("表示制限のため最初の%dメッセージのみ表示。全%dメッセージ", maxContentMessages, conv.MessageCount),
		})
	}

	return blocks
}

func metadataText(conv *conversations.Conversation) string {
	return fmt.Sprintf("作成日: %s\n更新日: %s\nメッセージ数: %d\n会話ID: %s",
		conv.CreatedAt.Format("2006-01-02 15:04"),
		conv.UpdatedAt.Format("2006-01-02 15:04"),
		conv.MessageCount,
		conv.ID,
	)
}

func messageHeader(msg conversations.Message) string {
	emoji := "🤖"
	if msg.Role == conversations.RoleHuman {
		emoji = "👤"
	}
	header := emoji + " " + titleCase(msg.Role)
	if msg.Timestamp != nil {
		header += " " + msg.Timestamp.Format("15:04")
	}
	return header
}

func titleCase(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func capRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
