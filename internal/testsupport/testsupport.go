package testsupport

import (
	"path/filepath"
	"testing"

	"interviewer/internal/config"
	"interviewer/internal/store"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Storage runs in local-only mode and the LLM key is stubbed so validation
// passes without external services.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Storage.Endpoint = ""
	cfg.Storage.LocalDir = filepath.Join(base, "objects")
	cfg.LLM.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithQuestionPlan overrides the generation categories and per-category count.
func WithQuestionPlan(categories []string, perCategory int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.Categories = categories
		cfg.LLM.QuestionsPerCategory = perCategory
	}
}

// WithNtfyTopic enables notifications against the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// MustOpenStore opens a store for the given config and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
