package services

import "log"

// detach runs fn on its own goroutine. Errors and panics are logged and
// counted but never reach the caller; enrichment work must not affect
// the request that spawned it.
func detach(task string, fn func() error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[%s] panic: %v", task, r)
				detachedTaskFailuresTotal.WithLabelValues(task).Inc()
			}
		}()
		if err := fn(); err != nil {
			log.Printf("[%s] %v", task, err)
			detachedTaskFailuresTotal.WithLabelValues(task).Inc()
		}
	}()
}
