package model

// Event is one of the historical events the pipeline extracts claims about.
// Keywords drive the chunk relevance filter; they are deliberately broad so
// that recall beats precision (the LLM rejects irrelevant chunks later).
type Event struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// DefaultEvents returns the five events under study
func DefaultEvents() []Event {
	return []Event{
		{
			ID:   "election_night_1860",
			Name: "Election Night 1860",
			Keywords: []string{
				"election night 1860", "November 1860", "1860 election",
				"election results", "presidential election", "election",
				"1860", "November",
			},
		},
		{
			ID:   "fort_sumter",
			Name: "Fort Sumter Decision",
			Keywords: []string{
				"Fort Sumter", "Sumter", "Charleston", "April 1861",
				"resupply", "firing", "bombardment", "surrender",
			},
		},
		{
			ID:   "gettysburg_address",
			Name: "Gettysburg Address",
			Keywords: []string{
				"Gettysburg Address", "Gettysburg", "November 1863",
				"dedication", "cemetery", "four score", "battlefield",
			},
		},
		{
			ID:   "second_inaugural",
			Name: "Second Inaugural Address",
			Keywords: []string{
				"Second Inaugural", "March 1865", "inauguration",
				"second term", "inaugural address", "1865",
			},
		},
		{
			ID:   "fords_theatre",
			Name: "Ford's Theatre Assassination",
			Keywords: []string{
				"Ford's Theatre", "assassination", "April 14 1865",
				"John Wilkes Booth", "shot", "theater", "theatre",
				"Booth", "killed", "murdered",
			},
		},
	}
}

// EventName resolves an event ID to its display name
func EventName(events []Event, id string) string {
	for _, e := range events {
		if e.ID == id {
			return e.Name
		}
	}
	return id
}
