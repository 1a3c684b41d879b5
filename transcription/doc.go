// Package transcription turns inspected audio into text through a single
// call to a speech recognition backend.
//
// Backends implement Provider and are created by name from a
// provider.Registry:
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//   - transcription/openai: OpenAI audio transcription API
//
// A Transcriber enforces the duration limit, converts audio the backend
// cannot read natively to 16 kHz mono PCM WAV, and maps every backend
// failure to TRANSCRIPTION_SERVICE_UNAVAILABLE.
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory(whisper.ProviderName, whisper.Factory())
//	p, err := transcription.NewProvider(reg, cfg)
//	t := transcription.New(p, inspector.Transcoder(), cfg)
//	result, err := t.Transcribe(ctx, asset, path)
package transcription
