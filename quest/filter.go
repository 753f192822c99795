package quest

import (
	"sort"
	"strings"
)

// Filter selects quests. Zero-valued fields match everything.
type Filter struct {
	Period    Period
	TimeSlot  string
	EnergyTag string
	State     State

	// NeedsReview restricts the result to quests flagged for review.
	NeedsReview bool
}

// Matches reports whether q passes the filter.
func (f Filter) Matches(q *Quest) bool {
	if f.Period != "" && q.Period != f.Period {
		return false
	}
	if f.TimeSlot != "" && !strings.EqualFold(q.TimeSlot, f.TimeSlot) {
		return false
	}
	if f.EnergyTag != "" && !strings.EqualFold(q.EnergyTag, f.EnergyTag) {
		return false
	}
	if f.State != "" && q.State != f.State {
		return false
	}
	if f.NeedsReview && !q.NeedsReview() {
		return false
	}
	return true
}

// Apply returns the quests that pass the filter.
func (f Filter) Apply(quests []*Quest) []*Quest {
	var matched []*Quest
	for _, q := range quests {
		if f.Matches(q) {
			matched = append(matched, q)
		}
	}
	return matched
}

// Sort orders quests by time slot rank, then creation time, then id.
func Sort(quests []*Quest, slotRank func(string) int) {
	sort.SliceStable(quests, func(i, j int) bool {
		ri, rj := slotRank(quests[i].TimeSlot), slotRank(quests[j].TimeSlot)
		if ri != rj {
			return ri < rj
		}
		if !quests[i].CreatedAt.Equal(quests[j].CreatedAt) {
			return quests[i].CreatedAt.Before(quests[j].CreatedAt)
		}
		return quests[i].ID < quests[j].ID
	})
}
