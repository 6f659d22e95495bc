package drag

import "testing"

func rows(ids ...int64) []Candidate {
	out := make([]Candidate, 0, len(ids))
	layout := RowLayout{RowHeight: 10}
	for i, id := range ids {
		out = append(out, Candidate{ID: id, Box: layout.Box(i)})
	}
	return out
}

func TestInsertBeforePicksClosestCenterBelowPointer(t *testing.T) {
	cands := rows(1, 2, 3)
	cases := []struct {
		y      float64
		wantID int64
		wantOK bool
	}{
		{-5, 1, true},
		{4, 1, true},
		{5, 2, true},
		{12, 2, true},
		{16, 3, true},
		{24.9, 3, true},
		{25, 0, false},
		{100, 0, false},
	}
	for _, tc := range cases {
		got, ok := InsertBefore(cands, tc.y)
		if ok != tc.wantOK {
			t.Fatalf("y=%v: ok = %v, want %v", tc.y, ok, tc.wantOK)
		}
		if ok && got.ID != tc.wantID {
			t.Fatalf("y=%v: id = %d, want %d", tc.y, got.ID, tc.wantID)
		}
	}
}

func TestInsertBeforeNoCandidates(t *testing.T) {
	if _, ok := InsertBefore(nil, 3); ok {
		t.Fatal("expected end-of-list for empty candidates")
	}
}

func TestInsertBeforeIgnoresCandidateOrder(t *testing.T) {
	cands := rows(1, 2, 3)
	cands[0], cands[2] = cands[2], cands[0]
	got, ok := InsertBefore(cands, 12)
	if !ok || got.ID != 2 {
		t.Fatalf("expected 2, got %+v ok=%v", got, ok)
	}
}

func TestRowLayoutDefaultsHeight(t *testing.T) {
	b := RowLayout{Top: 3}.Box(2)
	if b.Top != 5 || b.Height != 1 || b.Center() != 5.5 {
		t.Fatalf("unexpected box: %+v", b)
	}
}
