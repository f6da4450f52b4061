package conversations

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/afero"
)

// SchemaInfo is the best-effort result of sniffing an archive's shape
// without fully parsing it.
type SchemaInfo struct {
	RootType               string   `json:"root_type"`
	SampleKeys             []string `json:"sample_keys"`
	MessageKey             string   `json:"message_key,omitempty"`
	SampleMessageKeys      []string `json:"sample_message_keys,omitempty"`
	EstimatedConversations int      `json:"estimated_conversations"`
}

// ValidateStructure reports whether an archive looks structurally parseable,
// with human-readable issues when it does not. Advisory only; it never
// returns an error.
func (p *Parser) ValidateStructure(path string) (bool, []string) {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return false, []string{"File not found"}
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return false, []string{fmt.Sprintf("Invalid JSON: %v", err)}
	}

	var issues []string
	switch v := root.(type) {
	case []any:
		// Direct list is always acceptable.
	case map[string]any:
		if _, ok := v["conversations"]; ok {
			break
		}
		if _, ok := v["data"]; ok {
			break
		}
		for _, value := range v {
			if _, ok := value.(map[string]any); !ok {
				issues = append(issues, "Object values must be conversation objects")
				break
			}
		}
	default:
		issues = append(issues, "Root element must be a list or an object")
	}

	return len(issues) == 0, issues
}

// DetectSchema sniffs the root type, first-level keys, the message container
// key in use, and an estimated conversation count. Advisory and best-effort;
// unreadable input yields a zero SchemaInfo.
func (p *Parser) DetectSchema(path string) SchemaInfo {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return SchemaInfo{}
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return SchemaInfo{}
	}

	switch v := root.(type) {
	case []any:
		info := SchemaInfo{RootType: "list", EstimatedConversations: len(v)}
		if len(v) > 0 {
			if sample, ok := v[0].(map[string]any); ok {
				info.SampleKeys = sortedKeys(sample)
				info.MessageKey, info.SampleMessageKeys = sniffMessages(sample)
			}
		}
		return info
	case map[string]any:
		info := SchemaInfo{RootType: "object", SampleKeys: sortedKeys(v)}
		for _, key := range []string{"conversations", "data"} {
			list, ok := v[key].([]any)
			if !ok {
				continue
			}
			info.EstimatedConversations = len(list)
			if len(list) > 0 {
				if sample, ok := list[0].(map[string]any); ok {
					info.SampleKeys = sortedKeys(sample)
					info.MessageKey, info.SampleMessageKeys = sniffMessages(sample)
				}
			}
			break
		}
		return info
	default:
		return SchemaInfo{RootType: fmt.Sprintf("%T", root)}
	}
}

func sniffMessages(conv map[string]any) (string, []string) {
	for _, key := range containerKeys {
		list, ok := conv[key].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		if msg, ok := list[0].(map[string]any); ok {
			return key, sortedKeys(msg)
		}
		return key, nil
	}
	return "", nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
