package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/audiovault/errors"
)

// sniffLen is how much of the file header is read for signature checks.
const sniffLen = 64

// asfHeaderGUID starts every ASF (wma) file.
var asfHeaderGUID = []byte{
	0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
	0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
}

// signature describes the smallest header a format needs and how to
// recognise it.
type signature struct {
	minLen int
	match  func(b []byte) bool
}

var signatures = map[Format]signature{
	FormatWAV: {12, func(b []byte) bool {
		return bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE"))
	}},
	FormatMP3: {4, func(b []byte) bool {
		return hasID3(b) || isMPEGFrameSync(b)
	}},
	FormatM4A: {12, func(b []byte) bool {
		return bytes.Equal(b[4:8], []byte("ftyp"))
	}},
	FormatOGG: {27, func(b []byte) bool {
		return bytes.Equal(b[0:4], []byte("OggS"))
	}},
	FormatAAC: {7, func(b []byte) bool {
		return hasID3(b) || bytes.Equal(b[0:4], []byte("ADIF")) || isADTSSync(b)
	}},
	FormatFLAC: {8, func(b []byte) bool {
		return bytes.Equal(b[0:4], []byte("fLaC"))
	}},
	FormatWMA: {30, func(b []byte) bool {
		return bytes.Equal(b[0:16], asfHeaderGUID)
	}},
}

// hasID3 reports a complete ID3v2 tag header.
func hasID3(b []byte) bool {
	return len(b) >= 10 && bytes.Equal(b[0:3], []byte("ID3"))
}

// isMPEGFrameSync checks for an 11-bit frame sync with a valid layer.
func isMPEGFrameSync(b []byte) bool {
	return b[0] == 0xFF && b[1]&0xE0 == 0xE0 && (b[1]>>1)&0x03 != 0
}

// isADTSSync checks for the 12-bit ADTS sync with layer bits 00.
func isADTSSync(b []byte) bool {
	return b[0] == 0xFF && b[1]&0xF6 == 0xF0
}

// readHeader returns up to sniffLen bytes from the start of path.
func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// checkSignature verifies header against format's magic bytes.
func checkSignature(format Format, header []byte) error {
	sig, ok := signatures[format]
	if !ok {
		return errors.UnsupportedFormat(string(format))
	}
	if len(header) < sig.minLen {
		return errors.CorruptAudio(fmt.Sprintf("truncated header: %d bytes, %s needs at least %d", len(header), format, sig.minLen))
	}
	if !sig.match(header) {
		return errors.CorruptAudio(fmt.Sprintf("header does not match %s signature", format))
	}
	return nil
}
