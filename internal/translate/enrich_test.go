package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsudoi/convosync/internal/conversations"
)

func TestEnrichTitles(t *testing.T) {
	boom := errors.New("boom")
	secondary := &fakeProvider{
		name:      "gemini",
		responses: []string{"バグ修正", "", "", ""},
		errs:      []error{nil, boom, boom, boom},
	}
	svc, _ := newTestService(t, nil, secondary)

	convs := []*conversations.Conversation{
		conversations.NewConversation("c1", "Fix the bug", nil, nil, []conversations.Message{{Role: conversations.RoleHuman, Content: "a"}}),
		conversations.NewConversation("c2", "日本語タイトル", nil, nil, []conversations.Message{{Role: conversations.RoleHuman, Content: "b"}}),
		conversations.NewConversation("c3", "Never translates", nil, nil, []conversations.Message{{Role: conversations.RoleHuman, Content: "c"}}),
	}

	svc.EnrichTitles(context.Background(), convs)

	assert.Equal(t, "バグ修正", convs[0].TranslatedTitle)
	// Already Japanese: kept as-is without a provider call.
	assert.Equal(t, "日本語タイトル", convs[1].TranslatedTitle)
	// Exhausted: falls back to the original title.
	assert.Equal(t, "Never translates", convs[2].TranslatedTitle)

	// Titles are never mutated by enrichment.
	require.Equal(t, "Fix the bug", convs[0].Title)
}
