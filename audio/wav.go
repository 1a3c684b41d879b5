package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"

	apperrors "github.com/kbukum/audiovault/errors"
)

// WAVE format tags from the fmt chunk.
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// errNotPCM marks a well-formed WAV whose samples are not integer PCM.
var errNotPCM = errors.New("wav: samples are not integer PCM")

// pcmInfo is what a WAV header and data chunk tell us.
type pcmInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataBytes     int64
}

// Duration is data bytes over the byte rate, in seconds.
func (p pcmInfo) Duration() float64 {
	byteRate := int64(p.SampleRate) * int64(p.Channels) * int64(p.BitsPerSample) / 8
	if byteRate <= 0 {
		return 0
	}
	return float64(p.DataBytes) / float64(byteRate)
}

// readPCMInfo decodes the WAV header at path. A missing or malformed
// header or data chunk is CORRUPT_AUDIO; a valid non-PCM file returns
// errNotPCM so the caller can fall back to transcoding.
func readPCMInfo(path string) (pcmInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcmInfo{}, apperrors.Internal(err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return pcmInfo{}, apperrors.Internal(err)
	}

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return pcmInfo{}, apperrors.CorruptAudio(fmt.Sprintf("invalid WAV header: %v", err))
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 || dec.BitDepth == 0 {
		return pcmInfo{}, apperrors.CorruptAudio("WAV header has no usable fmt chunk")
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return pcmInfo{}, errNotPCM
	}
	if dec.BitDepth%8 != 0 {
		return pcmInfo{}, errNotPCM
	}

	if err := dec.FwdToPCM(); err != nil {
		return pcmInfo{}, apperrors.CorruptAudio(fmt.Sprintf("no PCM data chunk: %v", err))
	}
	dataBytes := dec.PCMLen()
	if dataBytes < 0 || dataBytes > st.Size() {
		return pcmInfo{}, apperrors.CorruptAudio(fmt.Sprintf("data chunk claims %d bytes in a %d byte file", dataBytes, st.Size()))
	}

	return pcmInfo{
		SampleRate:    int(dec.SampleRate),
		Channels:      int(dec.NumChans),
		BitsPerSample: int(dec.BitDepth),
		DataBytes:     dataBytes,
	}, nil
}
