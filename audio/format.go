package audio

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbukum/audiovault/errors"
)

// Format is a supported container, named by its usual file extension.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatM4A  Format = "m4a"
	FormatOGG  Format = "ogg"
	FormatAAC  Format = "aac"
	FormatFLAC Format = "flac"
	FormatWMA  Format = "wma"
)

var supportedFormats = map[Format]struct{}{
	FormatMP3: {}, FormatWAV: {}, FormatM4A: {}, FormatOGG: {},
	FormatAAC: {}, FormatFLAC: {}, FormatWMA: {},
}

// Formats lists the supported formats in alphabetical order.
func Formats() []Format {
	out := make([]Format, 0, len(supportedFormats))
	for f := range supportedFormats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseFormat maps an extension (with or without the dot, any case) to a
// Format. Anything outside the supported set is UNSUPPORTED_FORMAT.
func ParseFormat(ext string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(ext, ".")))
	if _, ok := supportedFormats[f]; !ok {
		if f == "" {
			f = "(none)"
		}
		return "", errors.UnsupportedFormat(string(f))
	}
	return f, nil
}

// FormatFromPath selects the Format from a file name's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// String implements fmt.Stringer.
func (f Format) String() string { return string(f) }
