package models

import "testing"

func TestRequestStatusPending(t *testing.T) {
	if !StatusPending.Pending() {
		t.Fatal("pending must be actionable")
	}
	for _, s := range []RequestStatus{StatusAccepted, StatusRejected, StatusCancelled} {
		if s.Pending() {
			t.Fatalf("%s is terminal", s)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	if ParseSortKey("name") != SortName {
		t.Fatal("name")
	}
	if ParseSortKey("experience_years") != SortExperience {
		t.Fatal("experience_years")
	}
	if ParseSortKey("") != SortNewest {
		t.Fatal("default must be newest")
	}
	if ParseSortKey("garbage") != SortNewest {
		t.Fatal("unknown keys fall back to newest")
	}
}
