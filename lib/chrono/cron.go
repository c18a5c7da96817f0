package chrono

import (
	"log/slog"

	"check24-backend/lib/timezone"

	"github.com/robfig/cron/v3"
)

// Scheduler runs callbacks on standard 5 field cron specs evaluated in
// Tashkent time.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() Scheduler {
	return Scheduler{
		cron: cron.New(
			cron.WithLogger(slogLogger{}),
			cron.WithLocation(timezone.Location),
			cron.WithChain(cron.SkipIfStillRunning(slogLogger{})),
		),
	}
}

func (s Scheduler) Add(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	return err
}

func (s Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and blocks until running callbacks return.
func (s Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Validate reports whether spec is a schedule Add would accept.
func Validate(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}

type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{"err", err}, keysAndValues...)...)
}
