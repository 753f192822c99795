package engine

import (
	"time"

	"github.com/amonks/sidequest/internal/store"
	"github.com/amonks/sidequest/journal"
	"github.com/amonks/sidequest/quest"
	"github.com/amonks/sidequest/settings"
	"go.uber.org/zap"
)

// CreateQuest validates opts against the configured time slots and energy
// tags and stores a new quest.
func (e *Engine) CreateQuest(opts quest.CreateOptions) (*quest.Quest, error) {
	now := e.Now()
	var created *quest.Quest
	err := e.store.Update(func(tx *store.Tx) error {
		prefs, err := e.settings(tx)
		if err != nil {
			return err
		}
		if opts.TimeSlot, err = prefs.NormalizeTimeSlot(opts.TimeSlot); err != nil {
			return err
		}
		if opts.EnergyTag, err = prefs.NormalizeEnergyTag(opts.EnergyTag); err != nil {
			return err
		}

		q, err := quest.New(opts, now)
		if err != nil {
			return err
		}
		if err := quest.Put(tx, q); err != nil {
			return err
		}
		if err := journal.Recount(tx, now); err != nil {
			return err
		}
		created = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("quest created", zap.String("id", created.ID), zap.String("period", string(created.Period)))
	return created, nil
}

// GetQuest returns the quest whose id starts with id, rolled over to now.
func (e *Engine) GetQuest(id string) (*quest.Quest, error) {
	return e.mutateQuest("", id, func(*quest.Quest, time.Time) error { return nil })
}

// CompleteQuest marks the current period of a quest completed.
func (e *Engine) CompleteQuest(id string) (*quest.Quest, error) {
	return e.mutateQuest("completed", id, func(q *quest.Quest, now time.Time) error {
		return q.Complete(now)
	})
}

// AdvanceQuest adds delta to a progressive quest's progress.
func (e *Engine) AdvanceQuest(id string, delta int) (*quest.Quest, error) {
	return e.mutateQuest("advanced", id, func(q *quest.Quest, now time.Time) error {
		return q.Advance(delta, now)
	})
}

// SkipQuest marks the current period of a quest skipped.
func (e *Engine) SkipQuest(id string) (*quest.Quest, error) {
	return e.mutateQuest("skipped", id, func(q *quest.Quest, now time.Time) error {
		return q.Skip(now)
	})
}

// UndoQuest reverts the last complete or skip in the current period.
func (e *Engine) UndoQuest(id string) (*quest.Quest, error) {
	return e.mutateQuest("undone", id, func(q *quest.Quest, now time.Time) error {
		return q.Undo(now)
	})
}

// UpdateQuest changes a quest's title, time slot, energy tag, notes or target.
func (e *Engine) UpdateQuest(id string, opts quest.UpdateOptions) (*quest.Quest, error) {
	return e.mutateQuestWith("updated", id, func(tx *store.Tx, q *quest.Quest, now time.Time) error {
		prefs, err := e.settings(tx)
		if err != nil {
			return err
		}
		if opts.TimeSlot != nil {
			slot, err := prefs.NormalizeTimeSlot(*opts.TimeSlot)
			if err != nil {
				return err
			}
			opts.TimeSlot = &slot
		}
		if opts.EnergyTag != nil {
			tag, err := prefs.NormalizeEnergyTag(*opts.EnergyTag)
			if err != nil {
				return err
			}
			opts.EnergyTag = &tag
		}
		return q.Update(opts, now)
	})
}

// DeleteQuest removes a quest and its history.
func (e *Engine) DeleteQuest(id string) (*quest.Quest, error) {
	now := e.Now()
	var deleted *quest.Quest
	err := e.store.Update(func(tx *store.Tx) error {
		fullID, err := quest.Resolve(tx, id)
		if err != nil {
			return err
		}
		q, err := quest.Get(tx, fullID)
		if err != nil {
			return err
		}
		if err := quest.Delete(tx, fullID); err != nil {
			return err
		}
		deleted = q
		return journal.Recount(tx, now)
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("quest deleted", zap.String("id", deleted.ID))
	return deleted, nil
}

// ListQuests rolls every quest over to now and returns those matching
// filter, ordered by time slot then creation time.
func (e *Engine) ListQuests(filter quest.Filter) ([]*quest.Quest, error) {
	var matched []*quest.Quest
	err := e.store.Update(func(tx *store.Tx) error {
		quests, prefs, err := e.rolloverAll(tx, e.Now())
		if err != nil {
			return err
		}
		matched = filter.Apply(quests)
		quest.Sort(matched, prefs.TimeSlotRank)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}

func (e *Engine) mutateQuest(verb, id string, fn func(*quest.Quest, time.Time) error) (*quest.Quest, error) {
	return e.mutateQuestWith(verb, id, func(_ *store.Tx, q *quest.Quest, now time.Time) error {
		return fn(q, now)
	})
}

// mutateQuestWith resolves id, rolls the quest over, applies fn and stores
// the result in one transaction. An empty verb marks a read.
func (e *Engine) mutateQuestWith(verb, id string, fn func(*store.Tx, *quest.Quest, time.Time) error) (*quest.Quest, error) {
	now := e.Now()
	var out *quest.Quest
	err := e.store.Update(func(tx *store.Tx) error {
		fullID, err := quest.Resolve(tx, id)
		if err != nil {
			return err
		}
		q, err := quest.Get(tx, fullID)
		if err != nil {
			return err
		}

		q.Rollover(now)
		if err := fn(tx, q, now); err != nil {
			return err
		}
		if err := quest.Put(tx, q); err != nil {
			return err
		}
		if err := e.observeStreak(tx, q); err != nil {
			return err
		}
		if err := journal.Recount(tx, now); err != nil {
			return err
		}
		out = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	if verb != "" {
		e.logger.Info("quest "+verb,
			zap.String("id", out.ID),
			zap.String("state", string(out.State)),
			zap.Int("streak", out.Streak))
	}
	return out, nil
}

// rolloverAll rolls every quest over to now and stores the ones that changed.
func (e *Engine) rolloverAll(tx *store.Tx, now time.Time) ([]*quest.Quest, settings.Settings, error) {
	prefs, err := e.settings(tx)
	if err != nil {
		return nil, settings.Settings{}, err
	}
	quests, err := quest.All(tx)
	if err != nil {
		return nil, settings.Settings{}, err
	}

	bestChanged := false
	for _, q := range quests {
		if !q.Rollover(now) {
			continue
		}
		if err := quest.Put(tx, q); err != nil {
			return nil, settings.Settings{}, err
		}
		if prefs.ObserveStreak(q.LongestStreak) {
			bestChanged = true
		}
	}
	if bestChanged {
		if err := settings.Save(tx, prefs); err != nil {
			return nil, settings.Settings{}, err
		}
	}
	return quests, prefs, nil
}

func (e *Engine) observeStreak(tx *store.Tx, q *quest.Quest) error {
	prefs, err := e.settings(tx)
	if err != nil {
		return err
	}
	if !prefs.ObserveStreak(q.LongestStreak) {
		return nil
	}
	return settings.Save(tx, prefs)
}
