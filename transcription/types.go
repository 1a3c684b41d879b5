package transcription

// Request holds parameters for one backend call.
type Request struct {
	// AudioPath is the file the backend reads.
	AudioPath string `json:"audio_path"`
	// Format is the container of AudioPath (e.g. "wav").
	Format string `json:"format"`
	// Language is the expected language of the audio (e.g. "es").
	Language string `json:"language,omitempty"`
}

// Response is what a backend returned, before trimming.
type Response struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Result is a successful transcription. Text may be empty, in which case
// NoSpeech is set.
type Result struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	NoSpeech bool   `json:"no_speech"`
}
