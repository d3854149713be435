package audit

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

func multiEstateSource() *fakeSource {
	src := &fakeSource{
		divisions: map[string][]Division{},
		records:   map[string][]Record{},
	}
	for _, estate := range []string{"BSKE", "SGHE", "TKRE"} {
		src.divisions[estate] = []Division{{ID: "DIV01", Name: "Division 1"}}
		src.records[estate+"/DIV01"] = append(
			keraniPair(estate+"-0", estate+"-TX0", "emp-"+estate, "10", "12"),
			keraniSolo(estate+"-s", estate+"-TX9", "emp-"+estate),
		)
	}
	return src
}

func TestOrchestrator_CompletesAndMergesAllEstates(t *testing.T) {
	src := multiEstateSource()
	o := &Orchestrator{Source: src, Directory: src}

	var events []int
	result, err := o.Run(context.Background(), RunConfig{
		Estates: []string{"BSKE", "SGHE", "TKRE"},
	}, func(i, n int, _ string) {
		if n != 3 {
			t.Fatalf("estateCount = %d, want 3", n)
		}
		events = append(events, i)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != RunCompleted {
		t.Fatalf("status = %s, want Completed", result.Status)
	}
	if len(result.Estates) != 3 {
		t.Fatalf("estates = %d, want 3", len(result.Estates))
	}
	if result.TotalKerani != 6 || result.TotalVerified != 3 {
		t.Fatalf("grand totals = %d/%d, want 6/3", result.TotalKerani, result.TotalVerified)
	}
	if result.RoleTableVersion == "" {
		t.Fatal("result must carry the role table version")
	}
	if len(events) == 0 || events[len(events)-1] != 3 {
		t.Fatalf("progress events = %v, want per-estate events plus final", events)
	}
	for _, m := range result.Employees {
		if m.KeraniVerified > m.KeraniCreated {
			t.Fatalf("employee %s: verified %d > created %d", m.EmployeeID, m.KeraniVerified, m.KeraniCreated)
		}
	}
}

func TestOrchestrator_EstateFailureIsIsolated(t *testing.T) {
	src := multiEstateSource()
	src.failList = map[string]error{"SGHE": errors.New("estate db down")}
	o := &Orchestrator{Source: src, Directory: src}

	result, err := o.Run(context.Background(), RunConfig{Estates: []string{"BSKE", "SGHE", "TKRE"}}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != RunCompleted {
		t.Fatalf("status = %s, want Completed with partial results", result.Status)
	}
	if len(result.Estates) != 2 {
		t.Fatalf("surviving estates = %d, want 2", len(result.Estates))
	}
	if len(result.Failures) != 1 || result.Failures[0].Estate != "SGHE" {
		t.Fatalf("failures = %+v", result.Failures)
	}
}

func TestOrchestrator_AllEstatesFailed(t *testing.T) {
	src := multiEstateSource()
	src.failList = map[string]error{
		"BSKE": errors.New("down"),
		"SGHE": errors.New("down"),
		"TKRE": errors.New("down"),
	}
	o := &Orchestrator{Source: src, Directory: src}

	result, err := o.Run(context.Background(), RunConfig{Estates: []string{"BSKE", "SGHE", "TKRE"}}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != RunFailed {
		t.Fatalf("status = %s, want Failed", result.Status)
	}
	if len(result.Failures) != 3 {
		t.Fatalf("failures = %d, want per-estate causes for all 3", len(result.Failures))
	}
}

func TestOrchestrator_NoEstates(t *testing.T) {
	o := &Orchestrator{Source: multiEstateSource()}
	if _, err := o.Run(context.Background(), RunConfig{}, nil); !errors.Is(err, ErrNoEstates) {
		t.Fatalf("err = %v, want ErrNoEstates", err)
	}
}

// cancellingSource cancels the run after the first estate's fetch.
type cancellingSource struct {
	*fakeSource
	cancel  context.CancelFunc
	fetched int
	mu      sync.Mutex
}

func (c *cancellingSource) FetchRecords(ctx context.Context, estate, divisionID, from, to string) ([]Record, error) {
	c.mu.Lock()
	c.fetched++
	if c.fetched == 1 {
		defer c.cancel()
	}
	c.mu.Unlock()
	return c.fakeSource.FetchRecords(ctx, estate, divisionID, from, to)
}

func TestOrchestrator_CooperativeCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &cancellingSource{fakeSource: multiEstateSource(), cancel: cancel}
	o := &Orchestrator{Source: src, Directory: src.fakeSource}

	result, err := o.Run(ctx, RunConfig{Estates: []string{"BSKE", "SGHE", "TKRE"}}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != RunCancelled || !result.Cancelled {
		t.Fatalf("status = %s cancelled=%v, want Cancelled", result.Status, result.Cancelled)
	}
	// The first estate completed before the cancel took effect; nothing
	// after the boundary may have been processed.
	if len(result.Estates) != 1 {
		t.Fatalf("completed estates = %d, want exactly the first", len(result.Estates))
	}
	if len(result.Failures) != 0 {
		t.Fatalf("cancellation must not be recorded as estate failures: %+v", result.Failures)
	}
}

func TestOrchestrator_WorkerPoolMatchesSequential(t *testing.T) {
	src := multiEstateSource()
	estates := []string{"BSKE", "SGHE", "TKRE"}

	sequential, err := (&Orchestrator{Source: src, Directory: src}).
		Run(context.Background(), RunConfig{Estates: estates}, nil)
	if err != nil {
		t.Fatalf("sequential run: %v", err)
	}

	for run := 0; run < 20; run++ {
		parallel, err := (&Orchestrator{Source: src, Directory: src}).
			Run(context.Background(), RunConfig{Estates: estates, Workers: 3}, nil)
		if err != nil {
			t.Fatalf("parallel run %d: %v", run, err)
		}
		if parallel.Status != sequential.Status {
			t.Fatalf("run %d: status %s != %s", run, parallel.Status, sequential.Status)
		}
		if !reflect.DeepEqual(parallel.Employees, sequential.Employees) {
			t.Fatalf("run %d: parallel merge diverged from sequential", run)
		}
		if parallel.TotalKerani != sequential.TotalKerani || parallel.TotalVerified != sequential.TotalVerified {
			t.Fatalf("run %d: totals diverged", run)
		}
	}
}
