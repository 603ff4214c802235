package recon

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"linguaops/internal"
	"linguaops/internal/config"
	"linguaops/internal/meta"
)

// OrderSource is the slice of the store API the engine needs.
type OrderSource interface {
	ListOrderIDs(ctx context.Context) ([]int, error)
	GetOrder(ctx context.Context, id int) (internal.Order, error)
}

type Engine struct {
	source OrderSource
	cfg    config.Config
	log    *logrus.Logger
}

func NewEngine(source OrderSource, cfg config.Config, log *logrus.Logger) *Engine {
	return &Engine{source: source, cfg: cfg, log: log}
}

// MatchesExam reports whether an order belongs to the target exam:
// same level, same normalized date, and postal certificate delivery.
func MatchesExam(p internal.Participant, exam internal.ExamDefinition) bool {
	return p.ExamKind == exam.Kind &&
		p.ExamDate != "" &&
		p.ExamDate == meta.NormalizeDateDE(exam.Date) &&
		rePost.MatchString(p.CertificateDelivery)
}

// FindForExam runs the bulk reconciliation: every order ID is listed,
// details are fetched by a bounded worker pool, and matching
// participants come back sorted by exam date ascending. A listing or
// fetch failure aborts the whole run; partial bulk results are not
// trustworthy.
func (e *Engine) FindForExam(ctx context.Context, exam internal.ExamDefinition) ([]internal.Participant, error) {
	ids, err := e.source.ListOrderIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list order ids: %w", err)
	}
	e.log.WithFields(logrus.Fields{"exam": exam.Kind, "date": exam.Date, "orders": len(ids)}).
		Info("bulk reconciliation started")

	workers := e.cfg.ScanConcurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		cursor   atomic.Int64
		mu       sync.Mutex
		matched  = map[int]internal.Participant{}
		firstErr error
		wg       sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= len(ids) || ctx.Err() != nil {
					return
				}
				order, err := e.source.GetOrder(ctx, ids[idx])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("get order %d: %w", ids[idx], err)
					}
					mu.Unlock()
					cancel()
					return
				}
				p := BuildParticipant(order)
				if MatchesExam(p, exam) {
					mu.Lock()
					matched[idx] = p
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// rebuild in listing order so the date sort below stays stable
	indices := make([]int, 0, len(matched))
	for idx := range matched {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	rows := make([]internal.Participant, 0, len(indices))
	for _, idx := range indices {
		rows = append(rows, matched[idx])
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return examDateKey(rows[i].ExamDate).Before(examDateKey(rows[j].ExamDate))
	})

	e.log.WithField("matches", len(rows)).Info("bulk reconciliation finished")
	return rows, nil
}

func examDateKey(date string) time.Time {
	t, err := time.Parse("02.01.2006", date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SplitIDs partitions a candidate ID list at a cutoff into the recent
// batch (IDs at or above the cutoff) and the older rest. Both halves
// come back sorted descending, the order the scanner walks them in.
func SplitIDs(ids []int, cutoff int) (recent, older []int) {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	for _, id := range sorted {
		if id >= cutoff {
			recent = append(recent, id)
		} else {
			older = append(older, id)
		}
	}
	return recent, older
}
