package report

import (
	"errors"
	"reflect"
	"testing"

	"github.com/matsen/ash/internal/retraction"
)

// mapIndex is an in-memory Index for tests.
type mapIndex struct {
	records map[string][]retraction.Record
	err     error
	calls   int
}

func (m *mapIndex) Contains(doi string) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.records[doi]
	return ok, nil
}

func (m *mapIndex) RecordsFor(doi string) ([]retraction.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records[doi], nil
}

func record(nature, date, notice string) retraction.Record {
	return retraction.Record{
		retraction.ColumnNature:    nature,
		retraction.ColumnDate:      date,
		retraction.ColumnNoticeDOI: notice,
	}
}

func testIndex() *mapIndex {
	return &mapIndex{records: map[string][]retraction.Record{
		"10.1016/S0140-6736(20)32656-8": {
			record("Retraction", "1/2/2021", "10.1016/notice-a"),
			record("Correction", "7/8/2022", "10.1016/notice-b"),
		},
		"10.1002/jcb.12345": {
			record("Expression of concern", "5/6/2022", "10.1002/notice-c"),
		},
	}}
}

func TestBuild(t *testing.T) {
	dois := []string{
		"10.1016/S0140-6736(20)32656-8",
		"10.21105/joss.03440",
		"10.1002/jcb.12345",
		"10.1016/S0140-6736(20)32656-8",
	}

	got, err := Build(dois, testIndex())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantStatus := map[string]bool{
		"10.1016/S0140-6736(20)32656-8": true,
		"10.21105/joss.03440":           false,
		"10.1002/jcb.12345":             true,
	}
	if !reflect.DeepEqual(got.DOIs, wantStatus) {
		t.Errorf("DOIs = %v, want %v", got.DOIs, wantStatus)
	}

	wantZombies := []Zombie{
		{DOI: "10.1002/jcb.12345", Nature: "Expression of concern", Date: "5/6/2022", Notice: "https://doi.org/10.1002/notice-c"},
		{DOI: "10.1016/S0140-6736(20)32656-8", Nature: "Retraction", Date: "1/2/2021", Notice: "https://doi.org/10.1016/notice-a"},
		{DOI: "10.1016/S0140-6736(20)32656-8", Nature: "Correction", Date: "7/8/2022", Notice: "https://doi.org/10.1016/notice-b"},
	}
	if !reflect.DeepEqual(got.Zombies, wantZombies) {
		t.Errorf("Zombies = %+v, want %+v", got.Zombies, wantZombies)
	}

	if got.Clean() {
		t.Error("Clean() = true for report with zombies")
	}
	wantIDs := []string{"10.1002/jcb.12345", "10.1016/S0140-6736(20)32656-8"}
	if ids := got.ZombieDOIs(); !reflect.DeepEqual(ids, wantIDs) {
		t.Errorf("ZombieDOIs() = %v, want %v", ids, wantIDs)
	}
}

func TestBuild_Disjoint(t *testing.T) {
	dois := []string{"10.21105/joss.03440", "10.1038/nature12373"}

	got, err := Build(dois, testIndex())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(got.Zombies) != 0 {
		t.Errorf("Zombies = %v, want empty", got.Zombies)
	}
	if got.Zombies == nil {
		t.Error("Zombies = nil, want empty slice")
	}
	for id, retracted := range got.DOIs {
		if retracted {
			t.Errorf("DOIs[%q] = true, want false", id)
		}
	}
	if len(got.DOIs) != len(dois) {
		t.Errorf("len(DOIs) = %d, want %d", len(got.DOIs), len(dois))
	}
	if !got.Clean() {
		t.Error("Clean() = false for disjoint report")
	}
}

func TestBuild_SortedRegardlessOfDiscoveryOrder(t *testing.T) {
	idx := &mapIndex{records: map[string][]retraction.Record{
		"10.3000/c": {record("Retraction", "", "n3")},
		"10.1000/a": {record("Retraction", "", "n1")},
		"10.2000/b": {record("Retraction", "", "n2")},
	}}

	got, err := Build([]string{"10.3000/c", "10.1000/a", "10.2000/b"}, idx)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := []string{"10.1000/a", "10.2000/b", "10.3000/c"}
	if ids := got.ZombieDOIs(); !reflect.DeepEqual(ids, want) {
		t.Errorf("ZombieDOIs() = %v, want %v", ids, want)
	}
}

func TestBuild_DuplicatesLookedUpOnce(t *testing.T) {
	idx := testIndex()
	_, err := Build([]string{"10.1002/jcb.12345", "10.1002/jcb.12345", "10.1002/jcb.12345"}, idx)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if idx.calls != 1 {
		t.Errorf("Contains() called %d times, want 1", idx.calls)
	}
}

func TestBuild_IndexError(t *testing.T) {
	wantErr := errors.New("source unavailable")
	_, err := Build([]string{"10.1000/a"}, &mapIndex{err: wantErr})
	if !errors.Is(err, wantErr) {
		t.Errorf("Build() error = %v, want %v", err, wantErr)
	}
}

func TestBuild_Empty(t *testing.T) {
	got, err := Build(nil, testIndex())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(got.DOIs) != 0 || len(got.Zombies) != 0 {
		t.Errorf("Build(nil) = %+v, want empty report", got)
	}
}
