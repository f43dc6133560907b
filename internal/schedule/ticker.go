package schedule

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Ticker drives the schedule service at minute granularity. It only
// supplies the clock reading; firing decisions live in the service.
type Ticker struct {
	service *Service
	loc     *time.Location
	cron    *cron.Cron
}

// NewTicker creates a ticker that evaluates schedules in the given
// location.
func NewTicker(service *Service, loc *time.Location) *Ticker {
	return &Ticker{service: service, loc: loc}
}

// Start begins ticking once per minute.
func (t *Ticker) Start() {
	t.cron = cron.New(cron.WithLocation(t.loc))
	_, err := t.cron.AddFunc("* * * * *", func() {
		t.service.Tick(MomentFromTime(time.Now(), t.loc))
	})
	if err != nil {
		log.Printf("Failed to register schedule ticker: %v", err)
		return
	}
	t.cron.Start()
	log.Println("Schedule ticker started (minute granularity)")
}

// Stop halts the ticker. A tick already in flight runs to completion.
func (t *Ticker) Stop() {
	if t.cron != nil {
		t.cron.Stop()
	}
}
