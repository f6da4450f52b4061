package conversations

import "time"

// Canonical role values. Source archives use many vocabularies; the parser
// normalizes them onto these two. Anything else is carried through verbatim
// but treated as neither side downstream.
const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

// Fixed vocabulary for the topic field.
const (
	TopicTech     = "技術相談"
	TopicWorkflow = "作業効率化"
	TopicLearning = "学習・調査"
	TopicCreative = "創作・アイデア"
	TopicCasual   = "日常会話"
	TopicOther    = "その他"
)

// Fixed vocabulary for status and rating.
const (
	StatusInProgress = "進行中"
	StatusDone       = "完了"
	StatusFollowUp   = "要フォローアップ"

	DefaultStatus = StatusDone
	DefaultRating = "⭐⭐⭐"
)

const summaryMaxLen = 500

// Attachment is an opaque attachment descriptor. Only its presence and count
// matter to the importer; contents are carried as-is.
type Attachment map[string]any

// Message is a single conversation turn.
type Message struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	Timestamp   *time.Time   `json:"timestamp,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Conversation is one importable unit parsed from an export archive.
// Instances are built by NewConversation and are read-only afterwards,
// except for TranslatedTitle which the translation service fills in later.
type Conversation struct {
	ID              string    `json:"conversation_id"`
	Title           string    `json:"title"`
	TranslatedTitle string    `json:"translated_title,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Messages        []Message `json:"messages"`
	MessageCount    int       `json:"message_count"`
	Summary         string    `json:"summary"`
	Topic           string    `json:"topic"`
	Status          string    `json:"status"`
	Rating          string    `json:"rating"`
}

// NewConversation builds a canonical conversation. Summary and topic are
// derived exactly once here, from the messages available at construction;
// later enrichment (translation) never retriggers them.
func NewConversation(id, title string, createdAt, updatedAt *time.Time, messages []Message) *Conversation {
	now := time.Now()

	created := now
	if createdAt != nil {
		created = *createdAt
	}
	updated := created
	if updatedAt != nil {
		updated = *updatedAt
	}

	if title == "" {
		title = "Conversation " + shortID(id)
	}

	conv := &Conversation{
		ID:           id,
		Title:        title,
		CreatedAt:    created,
		UpdatedAt:    updated,
		Messages:     messages,
		MessageCount: len(messages),
		Topic:        TopicOther,
		Status:       DefaultStatus,
		Rating:       DefaultRating,
	}

	conv.Summary = conv.deriveSummary()
	if conv.Topic == TopicOther {
		conv.Topic = ClassifyTopic(conv.allContent())
	}

	return conv
}

// deriveSummary returns the first human message truncated to 500 runes.
// Falls back to the title when no human message exists. The "Empty
// conversation" branch is unreachable through the parser (zero-message
// conversations are discarded) but kept for direct constructions.
func (c *Conversation) deriveSummary() string {
	if len(c.Messages) == 0 {
		return "Empty conversation"
	}

	var firstHuman string
	for _, msg := range c.Messages {
		if msg.Role == RoleHuman {
			firstHuman = msg.Content
			break
		}
	}
	if firstHuman == "" {
		return c.Title
	}

	return truncateRunes(firstHuman, summaryMaxLen)
}

func (c *Conversation) allContent() string {
	var sb []byte
	for i, msg := range c.Messages {
		if i > 0 {
			sb = append(sb, ' ')
		}
		sb = append(sb, msg.Content...)
	}
	return string(sb)
}

// truncateRunes caps s at max runes, appending an ellipsis marker when cut.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func shortID(id string) string {
	runes := []rune(id)
	if len(runes) > 8 {
		runes = runes[:8]
	}
	return string(runes)
}
