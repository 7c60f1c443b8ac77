package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"connecty/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoProfiles   = errors.New("there are no profiles")

	// ErrStore wraps failures reported by the profile store.
	ErrStore = errors.New("profile store failure")
)

type ProfileInput struct {
	Handle         string
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         string
	Social         profile.Social
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

type ProfileEvents interface {
	Publish(evt profile.Event)
}

type ProfileUsecase interface {
	GetCurrent(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, in ProfileInput) (profile.Profile, bool, error)
	GetByHandle(ctx context.Context, handle string) (profile.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	List(ctx context.Context) ([]profile.Profile, error)

	AddExperience(ctx context.Context, userID uuid.UUID, in ExperienceInput) (profile.Profile, error)
	AddEducation(ctx context.Context, userID uuid.UUID, in EducationInput) (profile.Profile, error)
	DeleteExperience(ctx context.Context, userID, expID uuid.UUID) (profile.Profile, error)
	DeleteEducation(ctx context.Context, userID, eduID uuid.UUID) (profile.Profile, error)

	Delete(ctx context.Context, userID uuid.UUID) error
}

type Profiles struct {
	profiles profile.Repository
	cache    Cache
	events   ProfileEvents
	logger   zerolog.Logger

	// writes is bumped before every invalidation. Reads that raced a write
	// drop the entry they just cached.
	writes atomic.Uint64
}

func NewProfileUsecase(profiles profile.Repository, cache Cache, events ProfileEvents, logger zerolog.Logger) *Profiles {
	return &Profiles{profiles: profiles, cache: cache, events: events, logger: logger}
}

func (u *Profiles) GetCurrent(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	p, err := u.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, storeErr(err)
	}
	return p, nil
}

// Upsert updates the caller's profile with the non-empty fields of in, or
// creates it when none exists. The bool reports whether a profile was created.
func (u *Profiles) Upsert(ctx context.Context, userID uuid.UUID, in ProfileInput) (profile.Profile, bool, error) {
	if userID == uuid.Nil {
		return profile.Profile{}, false, ErrInvalidInput
	}
	fields := buildFields(in)

	existing, err := u.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		if fields.Handle != nil && *fields.Handle != existing.Handle {
			if err := u.ensureHandleFree(ctx, *fields.Handle, userID); err != nil {
				return profile.Profile{}, false, err
			}
		}
		p, err := u.update(ctx, userID, fields)
		return p, false, err
	case errors.Is(err, profile.ErrNotFound):
	default:
		return profile.Profile{}, false, storeErr(err)
	}

	if fields.Handle == nil {
		return profile.Profile{}, false, ErrInvalidInput
	}
	if err := u.ensureHandleFree(ctx, *fields.Handle, userID); err != nil {
		return profile.Profile{}, false, err
	}

	var p profile.Profile
	p.UserID = userID
	fields.Apply(&p)
	created, err := u.profiles.Create(ctx, p)
	if errors.Is(err, profile.ErrProfileExists) {
		// A concurrent request created the profile first.
		p, err := u.update(ctx, userID, fields)
		return p, false, err
	}
	if err != nil {
		return profile.Profile{}, false, storeErr(err)
	}
	u.afterWrite(ctx, profile.EventCreated, created)
	return created, true, nil
}

func (u *Profiles) update(ctx context.Context, userID uuid.UUID, fields profile.Fields) (profile.Profile, error) {
	p, err := u.profiles.Update(ctx, userID, fields)
	if err != nil {
		return profile.Profile{}, storeErr(err)
	}
	u.afterWrite(ctx, profile.EventUpdated, p)
	return p, nil
}

func (u *Profiles) GetByHandle(ctx context.Context, handle string) (profile.Profile, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return profile.Profile{}, profile.ErrNotFound
	}
	key := ProfileHandleCacheKey(handle)
	return u.cachedProfile(ctx, key, func() (profile.Profile, error) {
		return u.profiles.FindByHandle(ctx, handle)
	})
}

func (u *Profiles) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	if userID == uuid.Nil {
		return profile.Profile{}, profile.ErrNotFound
	}
	key := ProfileUserCacheKey(userID)
	return u.cachedProfile(ctx, key, func() (profile.Profile, error) {
		return u.profiles.FindByUserID(ctx, userID)
	})
}

func (u *Profiles) List(ctx context.Context) ([]profile.Profile, error) {
	gen := u.writes.Load()
	if u.cache != nil {
		var cached []profile.Profile
		hit, err := u.cache.GetJSON(ctx, profilesAllKey, &cached)
		if err == nil && hit && len(cached) > 0 {
			u.logger.Debug().Str("key", profilesAllKey).Msg("profile cache hit")
			return cached, nil
		}
		u.logger.Debug().Str("key", profilesAllKey).Msg("profile cache miss")
	}

	list, err := u.profiles.List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if len(list) == 0 {
		return nil, ErrNoProfiles
	}
	u.fill(ctx, profilesAllKey, list, gen)
	return list, nil
}

func (u *Profiles) AddExperience(ctx context.Context, userID uuid.UUID, in ExperienceInput) (profile.Profile, error) {
	entry := profile.Experience{
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: strings.TrimSpace(in.Description),
	}
	return u.mutate(ctx, userID, func(p *profile.Profile) error {
		p.AddExperience(entry)
		return nil
	})
}

func (u *Profiles) AddEducation(ctx context.Context, userID uuid.UUID, in EducationInput) (profile.Profile, error) {
	entry := profile.Education{
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  strings.TrimSpace(in.Description),
	}
	return u.mutate(ctx, userID, func(p *profile.Profile) error {
		p.AddEducation(entry)
		return nil
	})
}

func (u *Profiles) DeleteExperience(ctx context.Context, userID, expID uuid.UUID) (profile.Profile, error) {
	return u.mutate(ctx, userID, func(p *profile.Profile) error {
		return p.RemoveExperience(expID)
	})
}

func (u *Profiles) DeleteEducation(ctx context.Context, userID, eduID uuid.UUID) (profile.Profile, error) {
	return u.mutate(ctx, userID, func(p *profile.Profile) error {
		return p.RemoveEducation(eduID)
	})
}

// Delete removes the caller's profile together with the user account.
func (u *Profiles) Delete(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrInvalidInput
	}
	p, err := u.profiles.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		return storeErr(err)
	}
	if err := u.profiles.DeleteWithUser(ctx, userID); err != nil {
		return storeErr(err)
	}
	p.UserID = userID
	u.afterWrite(ctx, profile.EventDeleted, p)
	return nil
}

func (u *Profiles) mutate(ctx context.Context, userID uuid.UUID, fn func(p *profile.Profile) error) (profile.Profile, error) {
	if userID == uuid.Nil {
		return profile.Profile{}, ErrInvalidInput
	}
	p, err := u.profiles.Mutate(ctx, userID, fn)
	if err != nil {
		return profile.Profile{}, storeErr(err)
	}
	u.afterWrite(ctx, profile.EventUpdated, p)
	return p, nil
}

func (u *Profiles) ensureHandleFree(ctx context.Context, handle string, userID uuid.UUID) error {
	owner, err := u.profiles.FindByHandle(ctx, handle)
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return nil
	case err != nil:
		return storeErr(err)
	case owner.UserID != userID:
		return profile.ErrHandleTaken
	default:
		return nil
	}
}

func (u *Profiles) cachedProfile(ctx context.Context, key string, load func() (profile.Profile, error)) (profile.Profile, error) {
	gen := u.writes.Load()
	if u.cache != nil {
		var cached profile.Profile
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			u.logger.Debug().Str("key", key).Msg("profile cache hit")
			return cached, nil
		}
		u.logger.Debug().Str("key", key).Msg("profile cache miss")
	}

	p, err := load()
	if err != nil {
		return profile.Profile{}, storeErr(err)
	}
	u.fill(ctx, key, p, gen)
	return p, nil
}

// fill caches a value loaded while the write counter was gen. When a write
// landed in between, the entry may hold pre-write data and is removed again.
func (u *Profiles) fill(ctx context.Context, key string, value any, gen uint64) {
	if u.cache == nil || u.writes.Load() != gen {
		return
	}
	_ = u.cache.SetJSON(ctx, key, value, 0)
	if u.writes.Load() != gen {
		_ = u.cache.Delete(ctx, key)
	}
}

func (u *Profiles) afterWrite(ctx context.Context, eventType string, p profile.Profile) {
	u.writes.Add(1)
	if u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, profilesPattern); err != nil {
			u.logger.Warn().Err(err).Msg("profile cache invalidation failed")
		}
	}
	if u.events != nil {
		u.events.Publish(profile.NewEvent(eventType, p))
	}
}

// storeErr passes domain sentinels through and tags anything else as a store
// failure so callers can tell the two apart.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, profile.ErrNotFound),
		errors.Is(err, profile.ErrHandleTaken),
		errors.Is(err, profile.ErrEntryNotFound),
		errors.Is(err, profile.ErrProfileExists),
		errors.Is(err, ErrStore):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
}

func buildFields(in ProfileInput) profile.Fields {
	str := func(s string) *string {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return &s
	}

	f := profile.Fields{
		Handle:         str(in.Handle),
		Company:        str(in.Company),
		Website:        str(in.Website),
		Location:       str(in.Location),
		Bio:            str(in.Bio),
		Status:         str(in.Status),
		GitHubUsername: str(in.GitHubUsername),
		Social: profile.Social{
			YouTube:   strings.TrimSpace(in.Social.YouTube),
			Twitter:   strings.TrimSpace(in.Social.Twitter),
			Facebook:  strings.TrimSpace(in.Social.Facebook),
			LinkedIn:  strings.TrimSpace(in.Social.LinkedIn),
			Instagram: strings.TrimSpace(in.Social.Instagram),
		},
	}
	if skills := SplitSkills(in.Skills); skills != nil {
		f.Skills = skills
	}
	return f
}

// SplitSkills turns a comma-separated list into trimmed, non-empty skills.
// It returns nil when raw holds no skills.
func SplitSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
