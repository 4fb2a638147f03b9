// marketbot/bot/progress.go
package bot

import (
	"go.uber.org/zap"

	"marketbot/marketbot/utils/logging"
)

// Reporter receives one call after every engine state transition. The
// engine works fine with a no-op sink; rendering and the user-facing cancel
// control are the sink's problem.
type Reporter interface {
	Report(step string, detail map[string]interface{}, countdownSeconds int)
}

type nopReporter struct{}

func (nopReporter) Report(string, map[string]interface{}, int) {}

// NopReporter is the default sink.
func NopReporter() Reporter { return nopReporter{} }

type logReporter struct{}

// NewLogReporter writes every progress update to bot.log.
func NewLogReporter() Reporter { return logReporter{} }

func (logReporter) Report(step string, detail map[string]interface{}, countdownSeconds int) {
	fields := []zap.Field{zap.String("step", step)}
	if detail != nil {
		fields = append(fields, zap.Any("detail", detail))
	}
	if countdownSeconds > 0 {
		fields = append(fields, zap.Int("countdown_s", countdownSeconds))
	}
	logging.BotLogger.Info("progress", fields...)
}

// MultiReporter fans one update out to several sinks.
type MultiReporter []Reporter

func (m MultiReporter) Report(step string, detail map[string]interface{}, countdownSeconds int) {
	for _, r := range m {
		r.Report(step, detail, countdownSeconds)
	}
}
