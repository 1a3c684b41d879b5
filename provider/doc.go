// Package provider is a small generic framework for swappable backends.
//
// A Registry maps names to factories so the configured backend can be
// chosen at startup. RequestResponse plus Middleware lets cross-cutting
// concerns (logging, tracing) wrap a backend call without the backend
// knowing about them.
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("whisper", whisper.Factory())
//	p, err := reg.Resolve("whisper", cfg)
//
//	call := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithTracing[In, Out]("transcription"),
//	)(rr)
package provider
