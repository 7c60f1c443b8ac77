package github

import "errors"

var ErrNoRepos = errors.New("no repositories found")

// Repo is a public repository listed on a GitHub profile page.
type Repo struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
}
