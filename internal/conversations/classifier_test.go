package conversations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTopicHighestCountWins(t *testing.T) {
	// Two learning keywords against one tech keyword.
	content := "調べて 教えて エラー"
	assert.Equal(t, TopicLearning, ClassifyTopic(content))
}

func TestClassifyTopicTieBreakByTableOrder(t *testing.T) {
	// One keyword from each of two topics; the topic declared earlier in
	// the keyword table wins.
	assert.Equal(t, TopicCreative, ClassifyTopic("アイデア こんにちは"))
	assert.Equal(t, TopicTech, ClassifyTopic("デバッグ 自動化"))
}

func TestClassifyTopicSingleKeyword(t *testing.T) {
	assert.Equal(t, TopicLearning, ClassifyTopic("教えて"))
}

func TestClassifyTopicNoMatch(t *testing.T) {
	assert.Equal(t, TopicOther, ClassifyTopic("completely unrelated text"))
	assert.Equal(t, TopicOther, ClassifyTopic(""))
}

func TestClassifyTopicCaseFolding(t *testing.T) {
	// Matching runs against case-folded content, so an uppercase keyword
	// like "API" never fires on its own; the other tech keywords carry.
	assert.Equal(t, TopicOther, ClassifyTopic("API"))
	assert.Equal(t, TopicTech, ClassifyTopic("APIのエラー"))
}

func TestTopicsOrder(t *testing.T) {
	assert.Equal(t, []string{
		TopicTech, TopicWorkflow, TopicLearning, TopicCreative, TopicCasual, TopicOther,
	}, Topics())
}
