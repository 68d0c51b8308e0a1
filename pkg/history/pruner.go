package history

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner runs scheduled retention cleanup against a Store.
type Pruner struct {
	cron      *cron.Cron
	store     *Store
	retention time.Duration
}

// NewPruner schedules a daily prune of entries older than retention and
// runs one pass immediately.
func NewPruner(store *Store, retention time.Duration) *Pruner {
	p := &Pruner{
		cron:      cron.New(),
		store:     store,
		retention: retention,
	}

	if _, err := p.cron.AddFunc("@daily", p.prune); err != nil {
		log.Printf("Failed to schedule history pruning: %v", err)
	} else {
		log.Printf("Scheduled daily history pruning (retention: %v)", retention)
	}
	p.cron.Start()

	go p.prune()
	return p
}

func (p *Pruner) prune() {
	removed, err := p.store.Prune(p.retention)
	if err != nil {
		log.Printf("History pruning failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Pruned %d play history entries", removed)
	}
}

// Stop cancels the schedule.
func (p *Pruner) Stop() {
	p.cron.Stop()
}
