// Package process runs external tools such as ffmpeg.
//
// Children run in their own process group. When the context is canceled
// the whole group receives SIGTERM, and SIGKILL follows after the grace
// period, so a caller deadline never leaves a transcoder running.
package process
