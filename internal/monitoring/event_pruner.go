package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/clinicbase/patients-be/internal/services"
)

// EventPruner deletes audit events older than the retention window on
// a cron schedule.
type EventPruner struct {
	events    services.EventServiceProvider
	retention time.Duration
	schedule  string
	cron      *cron.Cron
}

// NewEventPruner creates a pruner keeping retentionDays of events.
func NewEventPruner(events services.EventServiceProvider, retentionDays int, schedule string) *EventPruner {
	return &EventPruner{
		events:    events,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  schedule,
		cron:      cron.New(),
	}
}

// Start registers the job and begins the schedule. The schedule string
// is a standard 5-field cron expression.
func (p *EventPruner) Start() error {
	if _, err := p.cron.AddFunc(p.schedule, p.prune); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts the schedule; a running prune is allowed to finish.
func (p *EventPruner) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
}

func (p *EventPruner) prune() {
	cutoff := time.Now().Add(-p.retention)
	n, err := p.events.PruneOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune audit events")
		return
	}
	if n > 0 {
		log.Info().Int64("pruned", n).Time("cutoff", cutoff).Msg("Pruned audit events")
	}
}
