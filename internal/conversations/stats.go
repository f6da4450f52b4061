package conversations

import "time"

// ArchiveStats aggregates a parsed archive for reporting.
type ArchiveStats struct {
	TotalConversations int            `json:"total_conversations"`
	TotalMessages      int            `json:"total_messages"`
	AverageMessages    float64        `json:"average_messages_per_conversation"`
	Earliest           *time.Time     `json:"earliest,omitempty"`
	Latest             *time.Time     `json:"latest,omitempty"`
	TopicDistribution  map[string]int `json:"topic_distribution"`
}

// Stats computes aggregate statistics over parsed conversations.
func Stats(convs []*Conversation) ArchiveStats {
	stats := ArchiveStats{
		TotalConversations: len(convs),
		TopicDistribution:  make(map[string]int),
	}

	for _, conv := range convs {
		stats.TotalMessages += conv.MessageCount
		stats.TopicDistribution[conv.Topic]++

		created := conv.CreatedAt
		if stats.Earliest == nil || created.Before(*stats.Earliest) {
			t := created
			stats.Earliest = &t
		}
		if stats.Latest == nil || created.After(*stats.Latest) {
			t := created
			stats.Latest = &t
		}
	}

	if len(convs) > 0 {
		stats.AverageMessages = float64(stats.TotalMessages) / float64(len(convs))
	}

	return stats
}
