package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPromptCatalog(t *testing.T) {
	c := DefaultPromptCatalog()

	assert.Equal(t, []string{"price", "best", "deal", "range"}, c.PricingKeywords)
	assert.Equal(t, "…", c.EmptyReply)
	for _, lang := range []string{"bn", "en"} {
		p := c.For(lang)
		assert.NotEmpty(t, p.System, lang)
		assert.NotEmpty(t, p.PricingTip, lang)
		assert.Contains(t, p.Echo, "{prompt}", lang)
		assert.NotEmpty(t, p.LLMError, lang)
		assert.NotEmpty(t, p.RequestFailed, lang)
	}
	assert.NotEqual(t, c.For("bn").System, c.For("en").System)
}

func TestPromptCatalogUnknownLanguageFallsBackToBangla(t *testing.T) {
	c := DefaultPromptCatalog()
	assert.Equal(t, c.For("bn"), c.For("fr"))
}

func TestEchoReply(t *testing.T) {
	p := DefaultPromptCatalog().For("en")
	assert.Contains(t, p.EchoReply("hello"), `"hello"`)
}

func TestLoadPromptCatalogOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
languages:
  en:
    pricing_tip: "custom tip"
`), 0o644))

	c, err := LoadPromptCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, "custom tip", c.For("en").PricingTip)
	assert.Equal(t, DefaultPromptCatalog().For("en").System, c.For("en").System)
	assert.Equal(t, DefaultPromptCatalog().For("bn"), c.For("bn"))
}

func TestLoadPromptCatalogErrors(t *testing.T) {
	_, err := LoadPromptCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages: [unclosed"), 0o644))
	_, err = LoadPromptCatalog(path)
	assert.Error(t, err)
}
