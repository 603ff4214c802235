package recon

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"linguaops/internal"
)

// ScanResult carries what an incremental scan produced. Rows arrive in
// completion order and carry no ordering guarantee. Stopped marks a
// cancelled scan; EarlyStopped marks the consecutive-miss cutoff.
type ScanResult struct {
	Rows         []internal.Participant
	Examined     int
	Stopped      bool
	EarlyStopped bool
}

// Scan checks candidate order IDs against the target exam with a
// bounded worker pool sharing one cursor. Once at least one match has
// been found, a run of consecutive misses reaching the early-stop
// threshold ends the scan; workers already in flight may overshoot the
// threshold slightly. A failed per-ID probe counts as a miss, one bad
// order must not abort a large scan. Cancellation discards in-flight
// results and resolves as stopped, not as an error.
func (e *Engine) Scan(ctx context.Context, ids []int, exam internal.ExamDefinition) ScanResult {
	var (
		mu       sync.Mutex
		rows     []internal.Participant
		cursor   atomic.Int64
		misses   atomic.Int64
		found    atomic.Bool
		halt     atomic.Bool
		examined atomic.Int64
	)

	workers := e.cfg.ScanConcurrency
	if workers <= 0 {
		workers = 1
	}
	threshold := int64(e.cfg.ScanEarlyStop)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if halt.Load() || ctx.Err() != nil {
					return
				}
				idx := int(cursor.Add(1) - 1)
				if idx >= len(ids) {
					return
				}

				p, ok := e.checkOrder(ctx, ids[idx], exam)
				if ctx.Err() != nil {
					return
				}
				examined.Add(1)

				if !ok {
					if found.Load() && threshold > 0 && misses.Add(1) >= threshold {
						halt.Store(true)
					}
					continue
				}

				found.Store(true)
				misses.Store(0)
				mu.Lock()
				rows = append(rows, p)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	result := ScanResult{
		Rows:         rows,
		Examined:     int(examined.Load()),
		Stopped:      ctx.Err() != nil,
		EarlyStopped: halt.Load(),
	}
	e.log.WithFields(logrus.Fields{
		"examined": result.Examined,
		"matches":  len(result.Rows),
		"stopped":  result.Stopped,
		"early":    result.EarlyStopped,
	}).Info("incremental scan finished")
	return result
}

func (e *Engine) checkOrder(ctx context.Context, id int, exam internal.ExamDefinition) (internal.Participant, bool) {
	order, err := e.source.GetOrder(ctx, id)
	if err != nil {
		if ctx.Err() == nil {
			e.log.WithField("order", id).WithError(err).Debug("probe failed, counted as miss")
		}
		return internal.Participant{}, false
	}
	p := BuildParticipant(order)
	return p, MatchesExam(p, exam)
}
