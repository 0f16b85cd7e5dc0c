package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPromptsYAML []byte

// LanguagePrompts holds the system instruction and canned replies for one language.
type LanguagePrompts struct {
	System        string `yaml:"system"`
	PricingTip    string `yaml:"pricing_tip"`
	Echo          string `yaml:"echo"`
	LLMError      string `yaml:"llm_error"`
	RequestFailed string `yaml:"request_failed"`
}

// PromptCatalog is the structure of prompts.yaml.
type PromptCatalog struct {
	PricingKeywords []string                   `yaml:"pricing_keywords"`
	EmptyReply      string                     `yaml:"empty_reply"`
	Languages       map[string]LanguagePrompts `yaml:"languages"`
}

// DefaultPromptCatalog parses the embedded prompts.yaml.
func DefaultPromptCatalog() *PromptCatalog {
	var c PromptCatalog
	if err := yaml.Unmarshal(defaultPromptsYAML, &c); err != nil {
		panic(fmt.Sprintf("embedded prompts.yaml is invalid: %v", err))
	}
	return &c
}

// LoadPromptCatalog returns the embedded catalog, overlaid with the file at
// path when path is non-empty.
func LoadPromptCatalog(path string) (*PromptCatalog, error) {
	catalog := DefaultPromptCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt catalog %s: %w", path, err)
	}
	var override PromptCatalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse prompt catalog %s: %w", path, err)
	}
	catalog.merge(&override)
	return catalog, nil
}

func (c *PromptCatalog) merge(o *PromptCatalog) {
	if len(o.PricingKeywords) > 0 {
		c.PricingKeywords = o.PricingKeywords
	}
	if o.EmptyReply != "" {
		c.EmptyReply = o.EmptyReply
	}
	for lang, p := range o.Languages {
		base := c.Languages[lang]
		if p.System != "" {
			base.System = p.System
		}
		if p.PricingTip != "" {
			base.PricingTip = p.PricingTip
		}
		if p.Echo != "" {
			base.Echo = p.Echo
		}
		if p.LLMError != "" {
			base.LLMError = p.LLMError
		}
		if p.RequestFailed != "" {
			base.RequestFailed = p.RequestFailed
		}
		c.Languages[lang] = base
	}
}

// For returns the prompts for lang, falling back to Bangla.
func (c *PromptCatalog) For(lang string) LanguagePrompts {
	if p, ok := c.Languages[lang]; ok {
		return p
	}
	return c.Languages["bn"]
}

// EchoReply fills the echo template with the user's prompt.
func (p LanguagePrompts) EchoReply(prompt string) string {
	return strings.ReplaceAll(p.Echo, "{prompt}", prompt)
}
