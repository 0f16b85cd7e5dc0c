package store

import (
	"context"
	"fmt"
	"testing"

	"dalal-chat-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behavior every MessageStore adapter must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) MessageStore) {
	t.Run("InsertAssignsIdentity", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		m, err := s.Insert(ctx, models.Message{Role: models.RoleUser, Text: "hi"})
		require.NoError(t, err)
		assert.NotEmpty(t, m.ID)
		assert.False(t, m.CreatedAt.IsZero())
		assert.Equal(t, models.DefaultConversationID, m.ConversationID)
		assert.Equal(t, models.RoleUser, m.Role)
	})

	t.Run("FindOrdersAndLimits", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			_, err := s.Insert(ctx, models.Message{ConversationID: "abc", Role: models.RoleUser, Text: fmt.Sprintf("m%d", i)})
			require.NoError(t, err)
		}
		_, err := s.Insert(ctx, models.Message{ConversationID: "other", Role: models.RoleUser, Text: "x"})
		require.NoError(t, err)

		asc, err := s.Find(ctx, Filter{ConversationID: "abc"}, FindOptions{Sort: Ascending, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"m0", "m1", "m2"}, texts(asc))

		desc, err := s.Find(ctx, Filter{ConversationID: "abc"}, FindOptions{Sort: Descending})
		require.NoError(t, err)
		assert.Equal(t, []string{"m4", "m3", "m2", "m1", "m0"}, texts(desc))

		all, err := s.Find(ctx, Filter{}, FindOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 6)
	})

	t.Run("DeleteManyIsIdempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, cid := range []string{"a", "a", "b"} {
			_, err := s.Insert(ctx, models.Message{ConversationID: cid, Role: models.RoleUser, Text: cid})
			require.NoError(t, err)
		}

		n, err := s.DeleteMany(ctx, Filter{ConversationID: "a"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		n, err = s.DeleteMany(ctx, Filter{ConversationID: "a"})
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		n, err = s.DeleteMany(ctx, Filter{ConversationID: "never-existed"})
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		left, err := s.Find(ctx, Filter{ConversationID: "a"}, FindOptions{})
		require.NoError(t, err)
		assert.Empty(t, left)

		rest, err := s.Find(ctx, Filter{ConversationID: "b"}, FindOptions{})
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})

	t.Run("LatestPerConversation", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seq := []struct{ cid, text string }{
			{"abc123", "hi"},
			{"xyz", "first"},
			{"abc123", "hello"},
			{"", "orphan"},
			{"xyz", "last"},
		}
		for _, m := range seq {
			_, err := s.Insert(ctx, models.Message{ConversationID: m.cid, Role: models.RoleUser, Text: m.text})
			require.NoError(t, err)
		}

		got, err := s.LatestPerConversation(ctx, 50)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "xyz", got[0].ConversationID)
		assert.Equal(t, "last", got[0].LastText)
		assert.Equal(t, models.DefaultConversationID, got[1].ConversationID)
		assert.Equal(t, "orphan", got[1].LastText)
		assert.Equal(t, "abc123", got[2].ConversationID)
		assert.Equal(t, "hello", got[2].LastText)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].LastAt.After(got[i-1].LastAt))
		}

		capped, err := s.LatestPerConversation(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, capped, 2)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func texts(msgs []models.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}
