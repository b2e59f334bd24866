package models

import "testing"

func TestGradeWeightAndRank(t *testing.T) {
	weights := map[Grade]float64{GradeA: 1.0, GradeB: 0.7, GradeC: 0.4, GradeD: 0.2}
	for grade, want := range weights {
		if got := grade.Weight(); got != want {
			t.Errorf("%s.Weight() = %f, want %f", grade, got, want)
		}
	}

	if !(GradeA.Rank() < GradeB.Rank() && GradeB.Rank() < GradeC.Rank() && GradeC.Rank() < GradeD.Rank()) {
		t.Errorf("grade ranks out of order")
	}
	if Grade("X").Rank() <= GradeD.Rank() {
		t.Errorf("unknown grades must rank last")
	}
}

func TestSortByGradeIsStable(t *testing.T) {
	sources := []GradedSource{
		{RawSource: RawSource{URL: "d1"}, Grade: GradeD},
		{RawSource: RawSource{URL: "a1"}, Grade: GradeA},
		{RawSource: RawSource{URL: "c1"}, Grade: GradeC},
		{RawSource: RawSource{URL: "b1"}, Grade: GradeB},
		{RawSource: RawSource{URL: "a2"}, Grade: GradeA},
	}

	SortByGrade(sources)

	want := []string{"a1", "a2", "b1", "c1", "d1"}
	for i, url := range want {
		if sources[i].URL != url {
			t.Fatalf("position %d: expected %s, got %s", i, url, sources[i].URL)
		}
	}
}

func TestDedupeByURLKeepsFirst(t *testing.T) {
	sources := []RawSource{
		{URL: "https://a", Title: "first"},
		{URL: "https://b", Title: "other"},
		{URL: "https://a", Title: "duplicate"},
	}

	out := DedupeByURL(sources)
	if len(out) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(out))
	}
	if out[0].Title != "first" {
		t.Fatalf("dedupe must keep the first occurrence, got %q", out[0].Title)
	}
}
