package usecase

import (
	"strings"

	"github.com/google/uuid"
)

const (
	profilesPattern = "profiles:*"
	profilesAllKey  = "profiles:all"
)

func normalizeKeyValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), "-")
}

func ProfileHandleCacheKey(handle string) string {
	return "profiles:handle:" + strings.TrimSpace(handle)
}

func ProfileUserCacheKey(userID uuid.UUID) string {
	return "profiles:user:" + userID.String()
}

func GitHubReposCacheKey(username string) string {
	return "github:repos:" + normalizeKeyValue(username)
}

func GitHubReposLockKey(reposKey string) string {
	reposKey = strings.TrimSpace(reposKey)
	if strings.HasPrefix(reposKey, "github:repos:") {
		return "github:lock:" + strings.TrimPrefix(reposKey, "github:repos:")
	}
	return "github:lock:" + reposKey
}
