package conversations

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/tsudoi/convosync/pkg/logging"
)

// Structural errors abort the whole parse. Per-record problems never do;
// those records are logged and skipped.
var (
	ErrInvalidJSON     = errors.New("conversations: invalid JSON")
	ErrUnsupportedRoot = errors.New("conversations: unsupported JSON structure")
)

// Candidate key lists, in priority order. Export archives disagree on field
// names; the first present non-empty candidate wins.
var (
	idKeys        = []string{"uuid", "id", "conversation_id"}
	titleKeys     = []string{"name", "title", "subject"}
	createdKeys   = []string{"created_at", "created", "start_time"}
	updatedKeys   = []string{"updated_at", "updated", "last_modified"}
	containerKeys = []string{"chat_messages", "messages", "turns", "exchanges", "history"}
	roleKeys      = []string{"sender", "role", "author", "type"}
	contentKeys   = []string{"text", "content", "message", "body"}
	msgTimeKeys   = []string{"created_at", "timestamp", "time"}
)

// Parser extracts canonical conversations from export archives with unknown
// top-level shapes.
type Parser struct {
	fs     afero.Fs
	logger *logging.Logger
}

// NewParser builds a parser. fs defaults to the OS filesystem and logger to
// the package default.
func NewParser(fs afero.Fs, logger *logging.Logger) *Parser {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{fs: fs, logger: logger}
}

// Parse reads and parses an export archive from disk.
func (p *Parser) Parse(path string) ([]*Conversation, error) {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, fmt.Errorf("conversations: read %s: %w", path, err)
	}
	return p.ParseBytes(data)
}

// ParseBytes parses raw archive JSON. Syntax errors and unrecognized root
// shapes are fatal; individual unparseable records are skipped.
func (p *Parser) ParseBytes(data []byte) ([]*Conversation, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	items, err := rootItems(root)
	if err != nil {
		return nil, err
	}

	conversations := make([]*Conversation, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			p.logger.Warn("skipping non-object conversation entry")
			continue
		}
		if conv, ok := p.parseConversation(obj); ok {
			conversations = append(conversations, conv)
		}
	}

	return conversations, nil
}

// rootItems locates the conversation list inside an arbitrary root shape:
// a direct list, an object with a conversations/data key, or an object
// whose values are themselves conversation objects.
func rootItems(root any) ([]any, error) {
	switch v := root.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if list, ok := v["conversations"].([]any); ok {
			return list, nil
		}
		if list, ok := v["data"].([]any); ok {
			return list, nil
		}
		// Fallback: treat the object values as conversations. Keys are
		// sorted so the output order is stable across runs.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]any, 0, len(v))
		for _, k := range keys {
			items = append(items, v[k])
		}
		return items, nil
	default:
		return nil, ErrUnsupportedRoot
	}
}

// parseConversation extracts one canonical conversation. A record without a
// resolvable identifier or without any parseable message is not an error;
// it is simply not importable.
func (p *Parser) parseConversation(obj map[string]any) (*Conversation, bool) {
	id, ok := extractField(obj, idKeys)
	if !ok {
		return nil, false
	}
	title, _ := extractField(obj, titleKeys)

	createdAt := extractTimestamp(obj, createdKeys)
	updatedAt := extractTimestamp(obj, updatedKeys)

	messages := p.parseMessages(obj)
	if len(messages) == 0 {
		return nil, false
	}

	return NewConversation(id, title, createdAt, updatedAt, messages), true
}

func (p *Parser) parseMessages(obj map[string]any) []Message {
	var raw []any
	for _, key := range containerKeys {
		if list, ok := obj[key].([]any); ok && len(list) > 0 {
			raw = list
			break
		}
	}
	if raw == nil {
		return nil
	}

	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			p.logger.Warn("skipping non-object message entry")
			continue
		}
		if msg, ok := parseMessage(m); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// parseMessage extracts one turn. Messages without a role or without any
// content are dropped; a Message never carries empty content.
func parseMessage(obj map[string]any) (Message, bool) {
	role, ok := extractField(obj, roleKeys)
	if !ok {
		return Message{}, false
	}
	role = normalizeRole(role)

	content, ok := extractField(obj, contentKeys)
	if !ok {
		return Message{}, false
	}

	msg := Message{
		Role:      role,
		Content:   content,
		Timestamp: extractTimestamp(obj, msgTimeKeys),
	}

	if raw, ok := obj["attachments"].([]any); ok {
		for _, a := range raw {
			if att, ok := a.(map[string]any); ok {
				msg.Attachments = append(msg.Attachments, Attachment(att))
			}
		}
	}

	return msg, true
}

func normalizeRole(role string) string {
	switch strings.ToLower(role) {
	case "user", "human":
		return RoleHuman
	case "assistant", "ai", "claude":
		return RoleAssistant
	default:
		return role
	}
}

// extractField returns the first present non-empty candidate as a string.
// Pure lookup over an untyped map; numbers and bools are stringified the
// way archives occasionally encode identifiers.
func extractField(obj map[string]any, candidates []string) (string, bool) {
	for _, key := range candidates {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64), true
			}
		case bool:
			if v {
				return "true", true
			}
		}
	}
	return "", false
}

// extractTimestamp tries each candidate key until one normalizes to a time.
func extractTimestamp(obj map[string]any, candidates []string) *time.Time {
	for _, key := range candidates {
		if v, ok := obj[key]; ok && v != nil {
			if t := NormalizeTimestamp(v); t != nil {
				return t
			}
		}
	}
	return nil
}
