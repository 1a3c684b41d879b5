package audio

// Asset describes an inspected audio file. It is derived from the file on
// every inspection and never edited.
type Asset struct {
	Filename        string  `json:"filename"`
	Format          Format  `json:"format"`
	SizeBytes       int64   `json:"size_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`
	SampleRate      int     `json:"sample_rate"`
	Channels        int     `json:"channels"`
	BitsPerSample   int     `json:"bits_per_sample"`
}

// PCMSpec selects the shape of a transcoded PCM WAV. Zero fields keep the
// source value.
type PCMSpec struct {
	SampleRate int
	Channels   int
}

// CanonicalSpec keeps the source rate and channel layout; only the sample
// encoding becomes 16-bit PCM.
var CanonicalSpec = PCMSpec{}

// RecognitionSpec is the mono 16 kHz waveform speech backends expect.
var RecognitionSpec = PCMSpec{SampleRate: 16000, Channels: 1}
