package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/epeers/divsim/internal/models"
	log "github.com/sirupsen/logrus"
)

type warningsKey struct{}

// Warnings gathers the non-fatal findings of one projection run, in the
// order they were raised, with a tally per code. Safe for concurrent use.
type Warnings struct {
	mu     sync.Mutex
	list   []models.Warning
	counts map[models.WarningCode]int
}

// WithWarnings attaches an empty Warnings to ctx
func WithWarnings(ctx context.Context) (context.Context, *Warnings) {
	w := &Warnings{counts: make(map[models.WarningCode]int)}
	return context.WithValue(ctx, warningsKey{}, w), w
}

// Warnf records a warning on the run carried by ctx and logs it.
// Without a run in ctx the warning is only logged.
func Warnf(ctx context.Context, code models.WarningCode, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.WithField("code", code).Warn(msg)

	w, _ := ctx.Value(warningsKey{}).(*Warnings)
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, models.Warning{Code: code, Message: msg})
	w.counts[code]++
}

// List returns a copy of the warnings so far, never nil
func (w *Warnings) List() []models.Warning {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append(make([]models.Warning, 0, len(w.list)), w.list...)
}

// Count reports how many warnings with code were raised
func (w *Warnings) Count(code models.WarningCode) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counts[code]
}
