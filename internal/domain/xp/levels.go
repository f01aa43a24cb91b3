package xp

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrEmptyLevelTable      = errors.New("level table is empty")
	ErrLevelTableStart      = errors.New("level table must start at threshold 0")
	ErrLevelTableNotSorted  = errors.New("level table thresholds must be strictly increasing")
)

// LevelProgress describes where cumulative XP lands on the level table.
type LevelProgress struct {
	LevelBefore   int
	LevelAfter    int
	Progress      int
	PercentToNext float64
}

// LevelTable is a strictly increasing step function from cumulative XP to a
// level. Index i holds the minimum XP for level i+1.
type LevelTable struct {
	mu         sync.RWMutex
	thresholds []int
}

// defaultLevelThresholds roughly doubles the gap every few levels so early
// levels come fast and late ones stay rare.
var defaultLevelThresholds = []int{0, 100, 250, 500, 850, 1300, 1900, 2650, 3550, 4600, 5850, 7300, 9000, 11000, 13500}

func NewLevelTable() *LevelTable {
	return &LevelTable{thresholds: append([]int(nil), defaultLevelThresholds...)}
}

// Replace installs a new table after validating it. On rejection the previous
// table remains active.
func (t *LevelTable) Replace(thresholds []int) error {
	if err := validateThresholds(thresholds); err != nil {
		return err
	}
	t.mu.Lock()
	t.thresholds = append([]int(nil), thresholds...)
	t.mu.Unlock()
	return nil
}

// Reset restores the built-in default table.
func (t *LevelTable) Reset() {
	t.mu.Lock()
	t.thresholds = append([]int(nil), defaultLevelThresholds...)
	t.mu.Unlock()
}

func (t *LevelTable) Thresholds() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]int(nil), t.thresholds...)
}

// LevelFor returns the largest level whose threshold is <= xp. Levels are
// 1-based; negative XP maps to level 1.
func (t *LevelTable) LevelFor(xp int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	level := 1
	for idx, threshold := range t.thresholds {
		if xp < threshold {
			break
		}
		level = idx + 1
	}
	return level
}

// Resolve computes the level transition for one XP award. LevelAfter may jump
// more than one step when a stacked milestone bonus lands in a single award.
func (t *LevelTable) Resolve(xpBefore, xpAfter int) LevelProgress {
	t.mu.RLock()
	thresholds := t.thresholds
	levelBefore := levelForLocked(thresholds, xpBefore)
	levelAfter := levelForLocked(thresholds, xpAfter)

	progress := 0
	percent := 100.0
	base := thresholds[levelAfter-1]
	progress = xpAfter - base
	if levelAfter < len(thresholds) {
		span := thresholds[levelAfter] - base
		if span > 0 {
			percent = float64(progress) / float64(span) * 100
		}
	}
	t.mu.RUnlock()

	return LevelProgress{
		LevelBefore:   levelBefore,
		LevelAfter:    levelAfter,
		Progress:      progress,
		PercentToNext: percent,
	}
}

func levelForLocked(thresholds []int, xp int) int {
	level := 1
	for idx, threshold := range thresholds {
		if xp < threshold {
			break
		}
		level = idx + 1
	}
	return level
}

func validateThresholds(thresholds []int) error {
	if len(thresholds) == 0 {
		return ErrEmptyLevelTable
	}
	if thresholds[0] != 0 {
		return fmt.Errorf("%w: got %d", ErrLevelTableStart, thresholds[0])
	}
	for idx := 1; idx < len(thresholds); idx++ {
		if thresholds[idx] <= thresholds[idx-1] {
			return fmt.Errorf("%w: thresholds[%d]=%d thresholds[%d]=%d", ErrLevelTableNotSorted, idx-1, thresholds[idx-1], idx, thresholds[idx])
		}
	}
	return nil
}
