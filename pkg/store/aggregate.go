package store

import (
	"sort"

	"dalal-chat-api/pkg/models"
)

// SummarizeConversations groups msgs (given in insertion order) by
// conversation id and keeps each group's most recent message. When two
// messages share a timestamp the later-inserted one wins. Groups are sorted
// by LastAt descending, equal LastAt putting the group written to last
// first, which is how the database adapters order them. limit <= 0 means
// no cap.
func SummarizeConversations(msgs []models.Message, limit int) []models.ConversationSummary {
	type group struct {
		summary models.ConversationSummary
		lastPos int
	}
	index := make(map[string]int)
	groups := make([]group, 0)

	for pos, m := range msgs {
		cid := models.NormalizeConversationID(m.ConversationID)
		i, seen := index[cid]
		if !seen {
			index[cid] = len(groups)
			groups = append(groups, group{
				summary: models.ConversationSummary{
					ConversationID: cid,
					LastAt:         m.CreatedAt,
					LastText:       m.Text,
				},
				lastPos: pos,
			})
			continue
		}
		if !m.CreatedAt.Before(groups[i].summary.LastAt) {
			groups[i].summary.LastAt = m.CreatedAt
			groups[i].summary.LastText = m.Text
			groups[i].lastPos = pos
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if !a.summary.LastAt.Equal(b.summary.LastAt) {
			return a.summary.LastAt.After(b.summary.LastAt)
		}
		return a.lastPos > b.lastPos
	})

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	summaries := make([]models.ConversationSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, g.summary)
	}
	return summaries
}
