package judge

import (
	"testing"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

func extraction(event, author string, claims ...string) model.EventExtraction {
	return model.EventExtraction{
		Event:          event,
		Author:         author,
		Claims:         claims,
		SourceDocument: author + "'s papers",
	}
}

func testEvents() []model.Event {
	return []model.Event{
		{ID: "fort_sumter", Name: "Fort Sumter Decision"},
		{ID: "gettysburg_address", Name: "Gettysburg Address"},
	}
}

func TestBuildPairsCrossProduct(t *testing.T) {
	extractions := []model.EventExtraction{
		extraction("fort_sumter", "Abraham Lincoln", "claim a"),
		extraction("fort_sumter", "Lincoln, Abraham", "claim b"),
		extraction("fort_sumter", "Francis F. Browne", "claim c"),
		extraction("fort_sumter", "John G. Nicolay", "claim d"),
	}

	pairs := BuildPairs(extractions, testEvents())
	if len(pairs) != 4 {
		t.Fatalf("got %d pairs, want 4 (2 Lincoln x 2 others)", len(pairs))
	}

	for _, p := range pairs {
		if p.EventName != "Fort Sumter Decision" {
			t.Errorf("event name = %q", p.EventName)
		}
		if p.LincolnAuthor == p.OtherAuthor {
			t.Errorf("pair compares %q with itself", p.LincolnAuthor)
		}
	}
}

func TestBuildPairsRequiresClaimsOnBothSides(t *testing.T) {
	extractions := []model.EventExtraction{
		extraction("fort_sumter", "Abraham Lincoln", "claim a"),
		extraction("fort_sumter", "Abraham Lincoln"), // no claims
		extraction("fort_sumter", "Francis F. Browne", "claim c"),
		extraction("fort_sumter", "John G. Nicolay"), // no claims
	}

	pairs := BuildPairs(extractions, testEvents())
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].OtherAuthor != "Francis F. Browne" {
		t.Errorf("other author = %q", pairs[0].OtherAuthor)
	}
}

func TestBuildPairsSeparatesEvents(t *testing.T) {
	extractions := []model.EventExtraction{
		extraction("fort_sumter", "Abraham Lincoln", "a"),
		extraction("gettysburg_address", "Francis F. Browne", "b"),
	}

	if pairs := BuildPairs(extractions, testEvents()); len(pairs) != 0 {
		t.Errorf("got %d pairs across different events, want 0", len(pairs))
	}
}

func TestSplitLincolnCaseInsensitive(t *testing.T) {
	lincoln, others := SplitLincoln([]model.EventExtraction{
		extraction("e", "ABRAHAM LINCOLN", "a"),
		extraction("e", "Lincoln, Abraham", "b"),
		extraction("e", "William H. Herndon", "c"),
	})
	if len(lincoln) != 2 {
		t.Errorf("lincoln count = %d, want 2", len(lincoln))
	}
	if len(others) != 1 {
		t.Errorf("others count = %d, want 1", len(others))
	}
}

func TestPairID(t *testing.T) {
	p := model.ComparisonPair{
		EventID:       "fort_sumter",
		LincolnAuthor: "Abraham Lincoln",
		OtherAuthor:   "John G. Nicolay",
	}
	want := "fort_sumter_Abraham Lincoln_John G. Nicolay"
	if got := p.ID(); got != want {
		t.Errorf("ID = %q, want %q", got, want)
	}
}
