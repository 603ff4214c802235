package recon

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"linguaops/internal"
	"linguaops/internal/config"
)

type fakeSource struct {
	mu      sync.Mutex
	orders  map[int]internal.Order
	fail    map[int]bool
	listErr error
	ids     []int
	calls   int
}

func (f *fakeSource) ListOrderIDs(ctx context.Context) ([]int, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ids, nil
}

func (f *fakeSource) GetOrder(ctx context.Context, id int) (internal.Order, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail[id] {
		return internal.Order{}, errors.New("upstream 500")
	}
	order, ok := f.orders[id]
	if !ok {
		return internal.Order{ID: id, Number: strconv.Itoa(id)}, nil
	}
	return order, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func matchingOrder(id int, examDate string) internal.Order {
	return internal.Order{
		ID:     id,
		Number: strconv.Itoa(id),
		MetaData: []internal.MetaEntry{
			{Key: "prüfungsdatum", Value: examDate},
			{Key: "zertifikat", Value: "Per Post"},
			{Key: "niveau", Value: "B1"},
		},
	}
}

func testEngine(source OrderSource) *Engine {
	cfg, _ := config.Load()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewEngine(source, cfg, log)
}

func TestFindForExamFiltersAndSorts(t *testing.T) {
	source := &fakeSource{
		ids: []int{1, 2, 3, 4},
		orders: map[int]internal.Order{
			// postal B1 orders on three different dates, plus order 4
			// with no exam metadata at all
			1: matchingOrder(1, "20.06.2025"),
			2: matchingOrder(2, "14.06.2025"),
			3: matchingOrder(3, "01.07.2025"),
		},
	}
	engine := testEngine(source)

	rows, err := engine.FindForExam(context.Background(), internal.ExamDefinition{Kind: "B1", Date: "2025-06-14"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].OrderID != 2 {
		t.Fatalf("rows=%+v", rows)
	}
}

func TestFindForExamSortsByExamDate(t *testing.T) {
	source := &fakeSource{
		ids: []int{1, 2},
		orders: map[int]internal.Order{
			1: matchingOrder(1, "14.06.2025"),
			2: matchingOrder(2, "14.06.2025"),
		},
	}
	engine := testEngine(source)

	rows, err := engine.FindForExam(context.Background(), internal.ExamDefinition{Kind: "B1", Date: "14.06.2025"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%+v", rows)
	}
	// stable sort: equal dates keep fetch order
	if rows[0].OrderID != 1 || rows[1].OrderID != 2 {
		t.Fatalf("order ids = %d, %d", rows[0].OrderID, rows[1].OrderID)
	}
}

func TestFindForExamFetchesEveryOrderConcurrently(t *testing.T) {
	ids := make([]int, 200)
	orders := map[int]internal.Order{}
	for i := range ids {
		ids[i] = i + 1
	}
	orders[37] = matchingOrder(37, "14.06.2025")
	orders[142] = matchingOrder(142, "14.06.2025")
	source := &fakeSource{ids: ids, orders: orders}
	engine := testEngine(source)

	rows, err := engine.FindForExam(context.Background(), internal.ExamDefinition{Kind: "B1", Date: "14.06.2025"})
	if err != nil {
		t.Fatal(err)
	}
	if source.callCount() != len(ids) {
		t.Fatalf("fetched %d details, want %d", source.callCount(), len(ids))
	}
	// listing order survives the pooled fetch
	if len(rows) != 2 || rows[0].OrderID != 37 || rows[1].OrderID != 142 {
		t.Fatalf("rows=%+v", rows)
	}
}

func TestFindForExamAbortsOnFetchFailure(t *testing.T) {
	ids := make([]int, 100)
	for i := range ids {
		ids[i] = i + 1
	}
	source := &fakeSource{ids: ids, fail: map[int]bool{50: true}}
	engine := testEngine(source)

	if _, err := engine.FindForExam(context.Background(), internal.ExamDefinition{Kind: "B1", Date: "14.06.2025"}); err == nil {
		t.Fatal("expected error when a detail fetch fails")
	}
}

func TestFindForExamAbortsOnListFailure(t *testing.T) {
	source := &fakeSource{listErr: errors.New("pagination failed")}
	engine := testEngine(source)

	if _, err := engine.FindForExam(context.Background(), internal.ExamDefinition{Kind: "B1", Date: "14.06.2025"}); err == nil {
		t.Fatal("expected error when listing fails")
	}
}

func TestSplitIDs(t *testing.T) {
	recent, older := SplitIDs([]int{5, 99, 42, 7, 100}, 42)
	if len(recent) != 3 || recent[0] != 100 || recent[2] != 42 {
		t.Fatalf("recent=%v", recent)
	}
	if len(older) != 2 || older[0] != 7 || older[1] != 5 {
		t.Fatalf("older=%v", older)
	}
}
