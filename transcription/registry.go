package transcription

import (
	"github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/provider"
)

// NewRegistry creates a new provider registry for transcription providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// NewProvider resolves the backend named by cfg.Provider. Errors already
// classified by the backend factory are returned unchanged.
func NewProvider(reg *provider.Registry[Provider], cfg Config) (Provider, error) {
	p, err := reg.Resolve(cfg.Provider, cfg.ProviderConfig())
	if err == nil {
		return p, nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return nil, appErr
	}
	return nil, errors.InvalidInput("transcription.provider", err.Error()).WithCause(err)
}
