package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"connecty/internal/domain/github"

	"github.com/rs/zerolog"
)

type GitHubClient interface {
	LatestRepos(ctx context.Context, username string, limit int) ([]github.Repo, error)
}

type GitHubUsecase interface {
	Repos(ctx context.Context, username string) ([]github.Repo, error)
}

type GitHubRepos struct {
	client GitHubClient
	cache  Cache
	limit  int
	logger zerolog.Logger
}

func NewGitHubUsecase(client GitHubClient, cache Cache, limit int, logger zerolog.Logger) *GitHubRepos {
	if limit <= 0 {
		limit = 5
	}
	return &GitHubRepos{client: client, cache: cache, limit: limit, logger: logger}
}

// Repos returns the latest public repositories of username. Concurrent misses
// for the same user wait briefly on a lock key so only one of them scrapes.
func (u *GitHubRepos) Repos(ctx context.Context, username string) ([]github.Repo, error) {
	username = strings.TrimSpace(username)
	if username == "" || u.client == nil {
		return nil, github.ErrNoRepos
	}

	key := GitHubReposCacheKey(username)
	if repos, ok := u.cached(ctx, key); ok {
		return repos, nil
	}

	if u.cache != nil {
		lockKey := GitHubReposLockKey(key)
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
		if err == nil && ok {
			defer func() { _ = u.cache.Delete(context.WithoutCancel(ctx), lockKey) }()
		} else if err == nil && !ok {
			wait := 300*time.Millisecond + time.Duration(time.Now().UnixNano()%201)*time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			if repos, ok := u.cached(ctx, key); ok {
				return repos, nil
			}
			u.logger.Debug().Str("lock", lockKey).Msg("github lock wait fallback")
		}
	}

	repos, err := u.client.LatestRepos(ctx, username, u.limit)
	if err != nil {
		u.logger.Warn().Err(err).Str("username", username).Msg("github repos lookup failed")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, github.ErrNoRepos
	}
	if len(repos) == 0 {
		return nil, github.ErrNoRepos
	}
	if len(repos) > u.limit {
		repos = repos[:u.limit]
	}
	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, repos, 0)
	}
	return repos, nil
}

func (u *GitHubRepos) cached(ctx context.Context, key string) ([]github.Repo, bool) {
	if u.cache == nil {
		return nil, false
	}
	var repos []github.Repo
	hit, err := u.cache.GetJSON(ctx, key, &repos)
	if err == nil && hit && len(repos) > 0 {
		u.logger.Debug().Str("key", key).Msg("github cache hit")
		return repos, true
	}
	u.logger.Debug().Str("key", key).Msg("github cache miss")
	return nil, false
}
