package dto

import (
	"time"

	"connecty/internal/domain/github"
	"connecty/internal/domain/profile"

	"github.com/google/uuid"
)

type OwnerResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type ProfileResponse struct {
	ID             uuid.UUID            `json:"id"`
	User           OwnerResponse        `json:"user"`
	Handle         string               `json:"handle"`
	Company        string               `json:"company,omitempty"`
	Website        string               `json:"website,omitempty"`
	Location       string               `json:"location,omitempty"`
	Bio            string               `json:"bio,omitempty"`
	Status         string               `json:"status"`
	GitHubUsername string               `json:"githubusername,omitempty"`
	Skills         []string             `json:"skills"`
	Social         profile.Social       `json:"social"`
	Experience     []profile.Experience `json:"experience"`
	Education      []profile.Education  `json:"education"`
	Date           time.Time            `json:"date"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	res := ProfileResponse{
		ID:             p.ID,
		User:           OwnerResponse{ID: p.Owner.ID, Name: p.Owner.Name, Avatar: p.Owner.Avatar},
		Handle:         p.Handle,
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GitHubUsername: p.GitHubUsername,
		Skills:         p.Skills,
		Social:         p.Social,
		Experience:     p.Experience,
		Education:      p.Education,
		Date:           p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if res.User.ID == uuid.Nil {
		res.User.ID = p.UserID
	}
	if res.Skills == nil {
		res.Skills = []string{}
	}
	if res.Experience == nil {
		res.Experience = []profile.Experience{}
	}
	if res.Education == nil {
		res.Education = []profile.Education{}
	}
	return res
}

func NewProfileListResponse(list []profile.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(list))
	for _, p := range list {
		out = append(out, NewProfileResponse(p))
	}
	return out
}

type RepoResponse struct {
	Name        string `json:"name"`
	URL         string `json:"html_url"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

func NewRepoListResponse(repos []github.Repo) []RepoResponse {
	out := make([]RepoResponse, 0, len(repos))
	for _, r := range repos {
		out = append(out, RepoResponse{Name: r.Name, URL: r.URL, Description: r.Description, Language: r.Language})
	}
	return out
}
