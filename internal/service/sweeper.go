package service

import (
    "context"
    "log"
    "time"
)

// Sweeper periodically expires pending reservations and online orders
// whose payment never settled within the configured window.  The
// settlement path itself is synchronous (client callback or poll); this
// sweep only enforces the timeout the synchronous path cannot.
type Sweeper struct {
    Reservations *ReservationService
    Orders       *OrderService
    Interval     time.Duration // how often to sweep
    PendingMaxAge time.Duration // how long a pending order may wait for payment
}

// Run sweeps until the context is cancelled.  Errors are logged and the
// loop keeps going; a missed sweep is retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
    ticker := time.NewTicker(s.Interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            s.sweep(ctx)
        }
    }
}

func (s *Sweeper) sweep(ctx context.Context) {
    cutoff := time.Now().UTC().Add(-s.PendingMaxAge)
    if n, err := s.Reservations.ExpireStale(ctx, cutoff); err != nil {
        log.Printf("sweep: reservations: %v", err)
    } else if n > 0 {
        log.Printf("sweep: expired %d stale reservations", n)
    }
    if n, err := s.Orders.ExpireStale(ctx, cutoff); err != nil {
        log.Printf("sweep: orders: %v", err)
    } else if n > 0 {
        log.Printf("sweep: expired %d stale orders", n)
    }
}
