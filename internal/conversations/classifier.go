package conversations

import "strings"

// topicKeywords maps a topic to the keywords that vote for it. The table is
// a slice, not a map: ties are broken by declaration order (first topic to
// reach the maximum score wins), and that ordering is part of the contract:
// reordering entries changes how ambiguous conversations classify.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{TopicTech, []string{"プログラミング", "API", "エラー", "デバッグ", "コード", "開発", "実装", "バグ"}},
	{TopicWorkflow, []string{"自動化", "ワークフロー", "効率", "時間短縮", "最適化", "改善"}},
	{TopicLearning, []string{"調べて", "教えて", "説明", "学習", "理解", "勉強", "研究"}},
	{TopicCreative, []string{"アイデア", "創作", "ブレインストーミング", "企画", "デザイン", "作成"}},
	{TopicCasual, []string{"こんにちは", "ありがとう", "雑談", "挨拶", "お疲れ"}},
}

// ClassifyTopic assigns a topic by counting keyword occurrences in the
// case-folded content. Keywords are matched verbatim against the folded
// text. Topics with zero matches are excluded; no match at all yields
// TopicOther.
func ClassifyTopic(content string) string {
	folded := strings.ToLower(content)

	best := TopicOther
	bestScore := 0
	for _, entry := range topicKeywords {
		score := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(folded, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = entry.topic
			bestScore = score
		}
	}

	return best
}

// Topics returns the fixed topic vocabulary in table order, ending with the
// default topic.
func Topics() []string {
	out := make([]string, 0, len(topicKeywords)+1)
	for _, entry := range topicKeywords {
		out = append(out, entry.topic)
	}
	return append(out, TopicOther)
}
