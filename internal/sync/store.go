package sync

import (
	"context"
	"time"
)

// Properties are the named typed fields of one remote record, mirroring the
// canonical conversation.
type Properties struct {
	Title           string    `dynamodbav:"title" json:"title"`
	TranslatedTitle string    `dynamodbav:"translatedTitle,omitempty" json:"translated_title,omitempty"`
	Date            time.Time `dynamodbav:"date" json:"date"`
	Topic           string    `dynamodbav:"topic" json:"topic"`
	Status          string    `dynamodbav:"status" json:"status"`
	Summary         string    `dynamodbav:"summary" json:"summary"`
	Rating          string    `dynamodbav:"rating" json:"rating"`
	MessageCount    int       `dynamodbav:"messageCount" json:"message_count"`
	ConversationID  string    `dynamodbav:"conversationId" json:"conversation_id"`
	SourceURL       string    `dynamodbav:"sourceUrl" json:"source_url"`
}

// Block is one piece of a record's freeform content body.
type Block struct {
	Type string `dynamodbav:"type" json:"type"`
	Text string `dynamodbav:"text" json:"text"`
}

// Content block types.
const (
	BlockHeading2  = "heading_2"
	BlockHeading3  = "heading_3"
	BlockParagraph = "paragraph"
	BlockCallout   = "callout"
	BlockBullet    = "bulleted_list_item"
)

// RecordStore is the remote tabular record store the engine reconciles
// against. Find returns an empty ref when no live record carries the
// identifier. Archive is a soft delete; archived records stop matching Find.
type RecordStore interface {
	Find(ctx context.Context, conversationID string) (string, error)
	Create(ctx context.Context, props Properties, content []Block) (string, error)
	Update(ctx context.Context, ref string, props Properties) error
	ReplaceContent(ctx context.Context, ref string, content []Block) error
	Archive(ctx context.Context, ref string) error
}
