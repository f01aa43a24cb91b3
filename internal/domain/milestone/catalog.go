package milestone

import (
	"errors"
	"fmt"
	"sync"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
)

var (
	ErrEmptyCatalog     = errors.New("milestone catalog is empty")
	ErrDuplicateID      = errors.New("duplicate milestone id")
	ErrMissingPredicate = errors.New("milestone predicate is required")
	ErrInvalidReward    = errors.New("milestone xp reward must be positive")
	ErrMissingEmoji     = errors.New("milestone emoji is required")
)

// Catalog is the injectable set of milestone definitions. Replacements go
// through a validated setter so a bad remote payload can never leave the
// process without a working catalog.
type Catalog struct {
	mu          sync.RWMutex
	definitions []Definition
}

func NewCatalog() *Catalog {
	return &Catalog{definitions: defaultDefinitions()}
}

func (c *Catalog) Replace(definitions []Definition) error {
	if err := validateDefinitions(definitions); err != nil {
		return err
	}
	c.mu.Lock()
	c.definitions = append([]Definition(nil), definitions...)
	c.mu.Unlock()
	return nil
}

func (c *Catalog) Reset() {
	c.mu.Lock()
	c.definitions = defaultDefinitions()
	c.mu.Unlock()
}

func (c *Catalog) Definitions() []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Definition(nil), c.definitions...)
}

func (c *Catalog) ByCategory(category Category) []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Definition, 0)
	for _, def := range c.definitions {
		if def.Category == category {
			out = append(out, def)
		}
	}
	return out
}

func validateDefinitions(definitions []Definition) error {
	if len(definitions) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(definitions))
	for _, def := range definitions {
		if def.ID == "" {
			return fmt.Errorf("%w: empty id", ErrDuplicateID)
		}
		if _, exists := seen[def.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, def.ID)
		}
		seen[def.ID] = struct{}{}
		if def.Predicate == nil {
			return fmt.Errorf("%w: id=%s", ErrMissingPredicate, def.ID)
		}
		if def.XpReward <= 0 {
			return fmt.Errorf("%w: id=%s reward=%d", ErrInvalidReward, def.ID, def.XpReward)
		}
		if def.Emoji == "" {
			return fmt.Errorf("%w: id=%s", ErrMissingEmoji, def.ID)
		}
	}
	return nil
}

func atLeast(get func(stats.Statistics) int, threshold int) func(stats.Statistics) bool {
	return func(s stats.Statistics) bool {
		return get(s) >= threshold
	}
}

func defaultDefinitions() []Definition {
	goals := func(s stats.Statistics) int { return s.Goals }
	games := func(s stats.Statistics) int { return s.Games }
	assists := func(s stats.Statistics) int { return s.Assists }
	saves := func(s stats.Statistics) int { return s.Saves }
	wins := func(s stats.Statistics) int { return s.Wins }
	mvps := func(s stats.Statistics) int { return s.MvpCount }
	streak := func(s stats.Statistics) int { return s.BestStreak }

	return []Definition{
		{ID: "first_game", Category: CategoryGames, Name: "Estreia", Emoji: "👟", XpReward: 25, Predicate: atLeast(games, 1)},
		{ID: "games_10", Category: CategoryGames, Name: "Figurinha Carimbada", Emoji: "📋", XpReward: 50, Predicate: atLeast(games, 10)},
		{ID: "games_50", Category: CategoryGames, Name: "Veterano", Emoji: "🎖️", XpReward: 150, Predicate: atLeast(games, 50)},
		{ID: "games_100", Category: CategoryGames, Name: "Centurião", Emoji: "🏛️", XpReward: 300, Predicate: atLeast(games, 100)},

		{ID: "first_goal", Category: CategoryGoals, Name: "Primeiro Gol", Emoji: "⚽", XpReward: 50, Predicate: atLeast(goals, 1)},
		{ID: "goals_10", Category: CategoryGoals, Name: "Artilheiro em Formação", Emoji: "🎯", XpReward: 100, Predicate: atLeast(goals, 10)},
		{ID: "goals_50", Category: CategoryGoals, Name: "Matador", Emoji: "🔥", XpReward: 250, Predicate: atLeast(goals, 50)},
		{ID: "goals_100", Category: CategoryGoals, Name: "Artilheiro Histórico", Emoji: "👑", XpReward: 500, Predicate: atLeast(goals, 100)},

		{ID: "first_assist", Category: CategoryAssists, Name: "Garçom de Primeira", Emoji: "🤝", XpReward: 40, Predicate: atLeast(assists, 1)},
		{ID: "assists_25", Category: CategoryAssists, Name: "Garçom", Emoji: "🍽️", XpReward: 120, Predicate: atLeast(assists, 25)},

		{ID: "saves_25", Category: CategorySaves, Name: "Paredão", Emoji: "🧤", XpReward: 100, Predicate: atLeast(saves, 25)},
		{ID: "saves_100", Category: CategorySaves, Name: "Muralha", Emoji: "🧱", XpReward: 300, Predicate: atLeast(saves, 100)},

		{ID: "first_win", Category: CategoryWins, Name: "Primeira Vitória", Emoji: "✅", XpReward: 30, Predicate: atLeast(wins, 1)},
		{ID: "wins_25", Category: CategoryWins, Name: "Vencedor", Emoji: "🏆", XpReward: 150, Predicate: atLeast(wins, 25)},

		{ID: "first_mvp", Category: CategoryMvp, Name: "Craque da Partida", Emoji: "⭐", XpReward: 75, Predicate: atLeast(mvps, 1)},
		{ID: "mvp_10", Category: CategoryMvp, Name: "Craque do Racha", Emoji: "🌟", XpReward: 250, Predicate: atLeast(mvps, 10)},

		{ID: "streak_5", Category: CategoryStreak, Name: "Assíduo", Emoji: "📅", XpReward: 60, Predicate: atLeast(streak, 5)},
		{ID: "streak_10", Category: CategoryStreak, Name: "Presença VIP", Emoji: "💎", XpReward: 150, Predicate: atLeast(streak, 10)},

		{ID: "clean_sheets_10", Category: CategorySpecial, Name: "Cadeado", Emoji: "🔒", XpReward: 120,
			Predicate: func(s stats.Statistics) bool { return s.CleanSheets >= 10 }},
		{ID: "worst_5", Category: CategorySpecial, Name: "Lanterna Honorária", Emoji: "🏮", XpReward: 20, Hidden: true,
			Predicate: func(s stats.Statistics) bool { return s.WorstCount >= 5 }},
	}
}
