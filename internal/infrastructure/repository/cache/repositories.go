package cache

import (
	"context"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/season"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
	basecache "github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/cache"
)

// SettingsRepository caches the per-group award configuration. Settings are
// read on every processed match and change rarely, so cache hits dominate.
type SettingsRepository struct {
	next  xp.SettingsRepository
	cache *basecache.Store
}

func NewSettingsRepository(next xp.SettingsRepository, cache *basecache.Store) *SettingsRepository {
	return &SettingsRepository{next: next, cache: cache}
}

func (r *SettingsRepository) GetByGroup(ctx context.Context, groupID string) (xp.Settings, bool, error) {
	key := settingsKey(groupID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		return cachedSettingsByGroup{
			value:  cloneSettings(item),
			exists: exists,
		}, nil
	})
	if err != nil {
		return xp.Settings{}, false, err
	}

	cached, _ := v.(cachedSettingsByGroup)
	return cloneSettings(cached.value), cached.exists, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, settings xp.Settings) (xp.Settings, error) {
	stored, err := r.next.Upsert(ctx, settings)
	if err != nil {
		return xp.Settings{}, err
	}
	r.cache.Delete(ctx, settingsKey(stored.GroupID))
	return stored, nil
}

type cachedSettingsByGroup struct {
	value  xp.Settings
	exists bool
}

func cloneSettings(item xp.Settings) xp.Settings {
	out := item
	out.StreakTiers = append([]xp.StreakTier(nil), item.StreakTiers...)
	return out
}

func settingsKey(groupID string) string {
	return "settings:group:" + groupID
}

// SeasonRepository caches the active-season lookup, which every processed
// match resolves, and the standings list behind the public leaderboard.
// Participation writes invalidate the season's standings.
type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) GetActiveByGroup(ctx context.Context, groupID string) (season.Season, bool, error) {
	key := "season:active:group:" + groupID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActiveByGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		return cachedActiveSeason{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}

	cached, _ := v.(cachedActiveSeason)
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) GetParticipation(ctx context.Context, seasonID, userID string) (season.Participation, bool, error) {
	return r.next.GetParticipation(ctx, seasonID, userID)
}

func (r *SeasonRepository) UpsertParticipation(ctx context.Context, participation season.Participation) error {
	if err := r.next.UpsertParticipation(ctx, participation); err != nil {
		return err
	}
	r.cache.Delete(ctx, standingsKey(participation.SeasonID))
	return nil
}

func (r *SeasonRepository) ListParticipationsBySeason(ctx context.Context, seasonID string) ([]season.Participation, error) {
	v, err := r.cache.GetOrLoad(ctx, standingsKey(seasonID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListParticipationsBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		out := make([]season.Participation, 0, len(items))
		for _, item := range items {
			out = append(out, cloneParticipation(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]season.Participation)
	out := make([]season.Participation, 0, len(items))
	for _, item := range items {
		out = append(out, cloneParticipation(item))
	}
	return out, nil
}

type cachedActiveSeason struct {
	value  season.Season
	exists bool
}

func cloneParticipation(item season.Participation) season.Participation {
	out := item
	out.Window = append([]season.OutcomeSample(nil), item.Window...)
	return out
}

func standingsKey(seasonID string) string {
	return "season:standings:" + seasonID
}
