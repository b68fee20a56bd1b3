package llm

import (
	"context"
	"fmt"

	"github.com/emotiquest/emotiquest/internal/logging"
)

// NewProvider builds the configured provider wrapped with retry and event
// recording. It returns ErrNotConfigured when cfg selects no provider.
func NewProvider(ctx context.Context, cfg Config, events EventSink, log *logging.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderOpenAI, ProviderOpenRouter:
		base, err = NewOpenAIProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → recording → base, so every attempt is recorded.
	recorded := WithRecording(base, cfg.Provider, events, log)
	return WithRetry(recorded, cfg.Retry), nil
}
