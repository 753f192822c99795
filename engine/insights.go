package engine

import (
	"github.com/amonks/sidequest/insight"
	"github.com/amonks/sidequest/internal/store"
	"github.com/amonks/sidequest/journal"
)

// GetInsights rolls every quest over and summarizes r. A zero range
// covers the last DefaultInsightDays days.
func (e *Engine) GetInsights(r insight.Range) (insight.Insights, error) {
	now := e.Now()
	if r.From.IsZero() && r.To.IsZero() {
		r = insight.LastDays(now, DefaultInsightDays)
	}
	r.From, r.To = r.From.In(e.loc), r.To.In(e.loc)
	if err := r.Validate(); err != nil {
		return insight.Insights{}, err
	}

	var out insight.Insights
	err := e.store.Update(func(tx *store.Tx) error {
		quests, prefs, err := e.rolloverAll(tx, now)
		if err != nil {
			return err
		}
		logs, err := journal.List(tx, "", "")
		if err != nil {
			return err
		}
		out, err = insight.Compute(quests, logs, prefs, r)
		return err
	})
	return out, err
}
