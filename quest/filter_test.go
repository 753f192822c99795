package quest

import (
	"testing"
	"time"
)

func TestFilter(t *testing.T) {
	morning := &Quest{ID: "a", Period: PeriodDaily, TimeSlot: "Morning", EnergyTag: "High", State: StatePending}
	evening := &Quest{ID: "b", Period: PeriodWeekly, TimeSlot: "Evening", EnergyTag: "Low", State: StateCompleted}
	parked := &Quest{ID: "c", Period: PeriodDaily, State: StatePending, DeferCount: 3}
	quests := []*Quest{morning, evening, parked}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all", filter: Filter{}, want: []string{"a", "b", "c"}},
		{name: "period", filter: Filter{Period: PeriodDaily}, want: []string{"a", "c"}},
		{name: "time slot", filter: Filter{TimeSlot: "evening"}, want: []string{"b"}},
		{name: "energy", filter: Filter{EnergyTag: "high"}, want: []string{"a"}},
		{name: "state", filter: Filter{State: StateCompleted}, want: []string{"b"}},
		{name: "needs review", filter: Filter{NeedsReview: true}, want: []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(quests)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %d quests", tt.want, len(got))
			}
			for i, q := range got {
				if q.ID != tt.want[i] {
					t.Fatalf("expected %v, got %s at %d", tt.want, q.ID, i)
				}
			}
		})
	}
}

func TestSort(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	quests := []*Quest{
		{ID: "none", CreatedAt: base},
		{ID: "evening", TimeSlot: "Evening", CreatedAt: base},
		{ID: "morning-late", TimeSlot: "Morning", CreatedAt: base.Add(time.Hour)},
		{ID: "morning-early", TimeSlot: "Morning", CreatedAt: base},
	}
	rank := func(slot string) int {
		switch slot {
		case "Morning":
			return 0
		case "Evening":
			return 2
		default:
			return 4
		}
	}

	Sort(quests, rank)

	want := []string{"morning-early", "morning-late", "evening", "none"}
	for i, q := range quests {
		if q.ID != want[i] {
			t.Fatalf("expected order %v, got %s at %d", want, q.ID, i)
		}
	}
}
