// Package audio inspects and dumps audio files.
//
// The supported containers form a closed set selected by file extension.
// Every file is checked against its container's magic bytes before any
// decoding, so a truncated or mislabelled file fails fast with
// CORRUPT_AUDIO. PCM WAV is read natively with go-audio/wav; every other
// container is transcoded by ffmpeg to a 16-bit PCM WAV (source rate and
// channel count preserved) and measured from that.
//
//	insp := audio.NewInspector(cfg.Audio)
//	asset, err := insp.Inspect(ctx, "meeting.m4a")
//	dump, err := insp.Dump("meeting.m4a")
package audio
