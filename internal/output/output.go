// Package output renders command results for people or for scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kbukum/audiovault/audio"
	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/observability"
	"github.com/kbukum/audiovault/store"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text", "table" (alias of text) and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "table":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", apperrors.InvalidInput("output", fmt.Sprintf("unknown output format %q (want text or json)", s))
}

type Formatter struct {
	w      io.Writer
	format Format
}

func NewFormatter(w io.Writer, format Format) *Formatter {
	if format == "" {
		format = FormatText
	}
	return &Formatter{w: w, format: format}
}

func (f *Formatter) writeJSON(v any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Converted reports a new record.
func (f *Formatter) Converted(rec *store.Record) error {
	if f.format == FormatJSON {
		return f.writeJSON(rec.Summary())
	}
	fmt.Fprintf(f.w, "✅ Converted %s\n", rec.Filename)
	fmt.Fprintf(f.w, "  id:       %s\n", rec.ID)
	asset := rec.Asset()
	f.assetLines(&asset)
	return nil
}

// Asset prints inspection results.
func (f *Formatter) Asset(a *audio.Asset) error {
	if f.format == FormatJSON {
		return f.writeJSON(a)
	}
	fmt.Fprintf(f.w, "🎧 %s\n", a.Filename)
	f.assetLines(a)
	return nil
}

func (f *Formatter) assetLines(a *audio.Asset) {
	fmt.Fprintf(f.w, "  format:   %s\n", a.Format)
	fmt.Fprintf(f.w, "  duration: %s\n", FormatDuration(a.DurationSeconds))
	fmt.Fprintf(f.w, "  audio:    %d Hz, %d ch, %d bit\n", a.SampleRate, a.Channels, a.BitsPerSample)
	fmt.Fprintf(f.w, "  size:     %s\n", FormatBytes(a.SizeBytes))
}

// Revealed prints a decrypted transcript. Empty transcripts are called out
// so silence is not mistaken for a failure.
func (f *Formatter) Revealed(id, text string) error {
	if f.format == FormatJSON {
		return f.writeJSON(map[string]string{"id": id, "text": text})
	}
	if text == "" {
		fmt.Fprintln(f.w, "(no speech detected)")
		return nil
	}
	fmt.Fprintln(f.w, text)
	return nil
}

// Records prints record summaries in store order.
func (f *Formatter) Records(list []store.Summary) error {
	if f.format == FormatJSON {
		if list == nil {
			list = []store.Summary{}
		}
		return f.writeJSON(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(f.w, "ℹ️  No conversions yet")
		return nil
	}
	tw := tabwriter.NewWriter(f.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tFORMAT\tDURATION\tCREATED")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Filename, s.Format, FormatDuration(s.DurationSeconds),
			s.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// Key prints a generated key.
func (f *Formatter) Key(key string) error {
	if f.format == FormatJSON {
		return f.writeJSON(map[string]string{"key": key})
	}
	fmt.Fprintln(f.w, key)
	return nil
}

// Checks prints doctor results.
func (f *Formatter) Checks(checks []observability.Health) error {
	if f.format == FormatJSON {
		return f.writeJSON(checks)
	}
	for _, c := range checks {
		icon := "✅"
		switch c.Status {
		case observability.HealthStatusDown:
			icon = "❌"
		case observability.HealthStatusDegraded:
			icon = "⚠️ "
		}
		if c.Message != "" {
			fmt.Fprintf(f.w, "  %s %s: %s\n", icon, c.Name, c.Message)
		} else {
			fmt.Fprintf(f.w, "  %s %s\n", icon, c.Name)
		}
	}
	return nil
}

// Error writes err. AppErrors keep their kind, code and stage.
func (f *Formatter) Error(err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	if f.format == FormatJSON {
		_ = f.writeJSON(appErr.ToResponse())
		return
	}
	msg := fmt.Sprintf("%s [%s]", appErr.Message, appErr.Code)
	if appErr.Stage != "" {
		msg = fmt.Sprintf("%s: %s", appErr.Stage, msg)
	}
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	if f.format == FormatText {
		fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
	}
}

func (f *Formatter) Success(msg string) {
	if f.format == FormatText {
		fmt.Fprintf(f.w, "✅ %s\n", msg)
	}
}

func (f *Formatter) Warning(msg string) {
	if f.format == FormatText {
		fmt.Fprintf(f.w, "⚠️  %s\n", msg)
	}
}

// FormatDuration renders seconds as 1h02m03s, 2m05s or 2.0s.
func FormatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%.1fs", seconds)
}

// FormatBytes renders a size with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
