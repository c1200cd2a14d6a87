package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/amlfed/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Built federation of 3 documents (1ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks logs federation and manifest events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.FederationHooks = (*logHooks)(nil)
	_ observability.ManifestHooks   = (*logHooks)(nil)
)

func (h *logHooks) OnEdgeAdded(from, to string) {
	h.logger.Debug("edge added", "from", from, "to", to)
}

func (h *logHooks) OnEdgeRemoved(from, to string) {
	h.logger.Debug("edge removed", "from", from, "to", to)
}

func (h *logHooks) OnEdgeRejected(from, to string, err error) {
	h.logger.Debug("edge rejected", "from", from, "to", to, "err", err)
}

func (h *logHooks) OnScopeRevalidated(root string, forward, backward int, d time.Duration) {
	h.logger.Debug("scope revalidated", "root", root, "forward", forward, "backward", backward, "took", d)
}

func (h *logHooks) OnScopeInvalidated(root string) {
	h.logger.Debug("scope invalidated", "root", root)
}

func (h *logHooks) OnBuildStart(path string) {
	h.logger.Debug("building manifest", "path", path)
}

func (h *logHooks) OnBuildComplete(path string, documents int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("manifest build failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("manifest built", "path", path, "documents", documents, "took", d)
}

// pluralize formats n with noun, adding "s" unless n is 1.
func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
