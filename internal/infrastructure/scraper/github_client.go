package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"connecty/internal/domain/github"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
)

// GitHubClient reads the repositories tab of a public GitHub profile page.
type GitHubClient struct {
	baseURL     string
	allowedHost string
	timeout     time.Duration
	logger      zerolog.Logger
}

func NewGitHubClient(baseURL string, logger zerolog.Logger) *GitHubClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://github.com"
	}
	return &GitHubClient{
		baseURL:     baseURL,
		allowedHost: hostFromBaseURL(baseURL),
		timeout:     10 * time.Second,
		logger:      logger,
	}
}

func (c *GitHubClient) LatestRepos(ctx context.Context, username string, limit int) ([]github.Repo, error) {
	if c == nil {
		return nil, errors.New("nil github client")
	}
	username = strings.TrimSpace(username)
	if username == "" || strings.ContainsAny(username, "/?#") {
		return nil, github.ErrNoRepos
	}
	if limit <= 0 {
		limit = 5
	}

	col := colly.NewCollector(
		colly.AllowedDomains(c.allowedHost),
	)
	col.SetRequestTimeout(c.timeout)

	repos := make([]github.Repo, 0, limit)
	seen := map[string]struct{}{}

	col.OnHTML("#user-repositories-list li", func(e *colly.HTMLElement) {
		if len(repos) >= limit {
			return
		}
		link := e.DOM.Find(`a[itemprop~="codeRepository"]`).First()
		name := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if name == "" || href == "" {
			return
		}
		abs := e.Request.AbsoluteURL(strings.TrimSpace(href))
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		repos = append(repos, github.Repo{
			Name:        name,
			URL:         abs,
			Description: collapseSpace(e.ChildText(`[itemprop="description"]`)),
			Language:    strings.TrimSpace(e.ChildText(`[itemprop="programmingLanguage"]`)),
		})
	})

	var reqErr error
	col.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			reqErr = fmt.Errorf("github profile status=%d: %w", r.StatusCode, err)
			return
		}
		reqErr = err
	})

	col.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	pageURL := fmt.Sprintf("%s/%s?tab=repositories", c.baseURL, url.PathEscape(username))
	if err := col.Visit(pageURL); err != nil {
		return nil, err
	}
	col.Wait()
	if reqErr != nil {
		return nil, reqErr
	}

	c.logger.Debug().Str("username", username).Int("repos", len(repos)).Msg("github repositories scraped")
	return repos, nil
}

func httpHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "ConnectyBot/0.1",
		"Accept":          "text/html",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func hostFromBaseURL(base string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Host == "" {
		return "github.com"
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
