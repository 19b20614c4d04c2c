package worker

import (
	"log"
	"time"

	"storefront-session-api/services/notification"
	"storefront-session-api/services/session"
)

// Janitor handles background cleanup of expired state
type Janitor struct {
	hub       *notification.Hub
	sessions  *session.MemoryStore
	interval  time.Duration
	maxIdle   time.Duration
	shutdown  chan struct{}
	isRunning bool
}

// NewJanitor creates a new janitor. The sessions store may be nil when Redis
// is in use; key TTLs already cover session expiry there.
func NewJanitor(hub *notification.Hub, sessions *session.MemoryStore, interval, maxIdle time.Duration) *Janitor {
	return &Janitor{
		hub:      hub,
		sessions: sessions,
		interval: interval,
		maxIdle:  maxIdle,
		shutdown: make(chan struct{}),
	}
}

// Start begins the cleanup loop
func (j *Janitor) Start() {
	j.isRunning = true
	go j.run()
	log.Printf("Started janitor (interval %s)", j.interval)
}

// Stop signals the janitor to stop
func (j *Janitor) Stop() {
	if !j.isRunning {
		return
	}

	log.Println("Stopping janitor...")
	close(j.shutdown)
	j.isRunning = false
}

func (j *Janitor) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.shutdown:
			log.Println("Janitor shutting down")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() {
	if removed := j.hub.Sweep(); removed > 0 {
		log.Printf("Janitor: removed %d expired notifications", removed)
	}

	if j.sessions != nil {
		if removed := j.sessions.Sweep(j.maxIdle); removed > 0 {
			log.Printf("Janitor: removed %d idle sessions", removed)
		}
	}
}
