package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	config "dalal-chat-api/configs"
	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedListHistoryDelete(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	catalog := config.DefaultPromptCatalog()
	var out bytes.Buffer

	require.NoError(t, run(ctx, []string{"seed", "-cid", "demo"}, &out, s, catalog))
	assert.Contains(t, out.String(), "seeded demo with 6 messages")

	out.Reset()
	require.NoError(t, run(ctx, []string{"list"}, &out, s, catalog))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "demo\t"))

	out.Reset()
	require.NoError(t, run(ctx, []string{"history", "-cid", "demo", "-limit", "2"}, &out, s, catalog))
	var msgs []models.Message
	require.NoError(t, json.Unmarshal(out.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, seedPrompts[0], msgs[0].Text)
	assert.Equal(t, catalog.For("bn").EchoReply(seedPrompts[0]), msgs[1].Text)

	out.Reset()
	require.NoError(t, run(ctx, []string{"delete", "-cid", "demo"}, &out, s, catalog))
	out.Reset()
	require.NoError(t, run(ctx, []string{"list"}, &out, s, catalog))
	assert.Empty(t, strings.TrimSpace(out.String()))
}

func TestRunUsageErrors(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	catalog := config.DefaultPromptCatalog()
	var out bytes.Buffer

	assert.ErrorIs(t, run(ctx, nil, &out, s, catalog), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"explode"}, &out, s, catalog), errUsage)
	assert.Error(t, run(ctx, []string{"delete"}, &out, s, catalog))
	assert.Error(t, run(ctx, []string{"list", "-bogus"}, &out, s, catalog))
}
