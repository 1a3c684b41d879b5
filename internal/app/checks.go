package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/audiovault/observability"
)

const checkTimeout = 5 * time.Second

// Checks probes every external prerequisite. The store is required for
// anything to work and reports down; the rest degrade the service.
func (a *App) Checks(ctx context.Context) []observability.Health {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	return []observability.Health{
		a.checkStore(ctx),
		a.checkKey(),
		a.checkFFmpeg(ctx),
		a.checkBackend(ctx),
	}
}

func (a *App) checkStore(ctx context.Context) observability.Health {
	h := observability.Health{Name: "store", Status: observability.HealthStatusUp, Message: a.Store.Path()}
	if err := a.Store.Check(ctx); err != nil {
		h.Status = observability.HealthStatusDown
		h.Message = err.Error()
	}
	return h
}

func (a *App) checkKey() observability.Health {
	if a.Encryptor == nil {
		return observability.Health{
			Name:    "key",
			Status:  observability.HealthStatusDegraded,
			Message: "not set; run `audiovault keygen` and export CRYPTO_KEY",
		}
	}
	return observability.Health{Name: "key", Status: observability.HealthStatusUp, Message: a.Config.Crypto.Algorithm}
}

func (a *App) checkFFmpeg(ctx context.Context) observability.Health {
	h := observability.Health{Name: "ffmpeg", Status: observability.HealthStatusUp}
	if !a.FFmpeg.Available() {
		h.Status = observability.HealthStatusDegraded
		h.Message = fmt.Sprintf("%s not found; only PCM WAV input will work", a.FFmpeg.Binary)
		return h
	}
	v, err := a.FFmpeg.Version(ctx)
	if err != nil {
		h.Status = observability.HealthStatusDegraded
		h.Message = err.Error()
		return h
	}
	h.Message = v
	return h
}

func (a *App) checkBackend(ctx context.Context) observability.Health {
	h := observability.Health{
		Name:    "transcription",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"provider": a.Backend.Name()},
	}
	if !a.Backend.IsAvailable(ctx) {
		h.Status = observability.HealthStatusDegraded
		h.Message = a.Backend.Name() + " backend is not reachable"
	}
	return h
}
