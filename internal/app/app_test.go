package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connecty/internal/config"
	"connecty/internal/domain/profile"
	"connecty/internal/testutils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app      *App
	users    *testutils.MemoryUsers
	profiles *testutils.MemoryProfiles
	cache    *testutils.MemoryCache
	events   *testutils.EventRecorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	users := testutils.NewMemoryUsers()
	profiles := testutils.NewMemoryProfiles(users)
	cache := testutils.NewMemoryCache()
	events := &testutils.EventRecorder{}

	cfg := config.Config{
		App: config.AppConfig{AppName: "Connecty", Environment: "test", HTTPPort: "0"},
		JWT: config.JWTConfig{
			AccessSecret:     "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: time.Hour,
		},
		GitHub: config.GitHubConfig{RepoLimit: 5},
	}

	a := New(Deps{
		Config:   cfg,
		Logger:   zerolog.Nop(),
		Users:    users,
		Profiles: profiles,
		Cache:    cache,
		Events:   events,
	})
	return &testServer{app: a, users: users, profiles: profiles, cache: cache, events: events}
}

// do sends one request and returns the status with the raw JSON body.
func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, json.RawMessage) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, json.Valid(raw), string(raw))
	return resp.StatusCode, raw
}

func (s *testServer) register(t *testing.T, name string) (string, uuid.UUID) {
	t.Helper()
	status, res := s.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name":      name,
		"email":     name + "@example.com",
		"password":  "secret123",
		"password2": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, string(res))

	var data struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(res, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken, data.User.ID
}

type profileData struct {
	ID     uuid.UUID `json:"id"`
	Handle string    `json:"handle"`
	Status string    `json:"status"`
	Skills []string  `json:"skills"`
	User   struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	} `json:"user"`
	Social     map[string]string `json:"social"`
	Experience []struct {
		ID    uuid.UUID `json:"id"`
		Title string    `json:"title"`
	} `json:"experience"`
	Education []struct {
		ID     uuid.UUID `json:"id"`
		School string    `json:"school"`
	} `json:"education"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func profileBody(handle string) map[string]any {
	return map[string]any{
		"handle":  handle,
		"status":  "Developer",
		"skills":  "Go, SQL, Docker",
		"twitter": "https://twitter.com/" + handle,
	}
}

func TestProfilesTestRoute(t *testing.T) {
	s := newTestServer(t)
	status, res := s.do(t, http.MethodGet, "/api/profiles/test", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"msg":"Profiles works."}`, string(res))
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/profiles/current"},
		{http.MethodPost, "/api/profiles"},
		{http.MethodDelete, "/api/profiles"},
		{http.MethodPost, "/api/profiles/experience"},
		{http.MethodDelete, "/api/profiles/education/" + uuid.NewString()},
		{http.MethodGet, "/api/users/current"},
	} {
		status, _ := s.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, tc.method+" "+tc.path)
	}

	status, res := s.do(t, http.MethodGet, "/api/profiles/current", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"message":"Invalid token"}`, string(res))
}

func TestRegisterValidationAndDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	status, res := s.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "a", "email": "nope", "password": "secret123", "password2": "other",
	})
	require.Equal(t, http.StatusBadRequest, status)
	errs := decode[map[string]string](t, res)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Equal(t, "Passwords must match", errs["password2"])

	s.register(t, "alice")
	status, res = s.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "alice", "email": "alice@example.com", "password": "secret123", "password2": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already exists", decode[map[string]string](t, res)["email"])
}

func TestLoginAndCurrentUser(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	status, _ := s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, res := s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "ALICE@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, status)
	tokens := decode[map[string]any](t, res)
	access, _ := tokens["access_token"].(string)
	refresh, _ := tokens["refresh_token"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	status, res = s.do(t, http.MethodGet, "/api/users/current", access, nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[map[string]any](t, res)
	assert.Equal(t, "alice", me["name"])
	assert.NotContains(t, me, "password_hash")

	status, _ = s.do(t, http.MethodPost, "/api/users/refresh", refresh, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/api/users/current", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCreateProfileAndLookups(t *testing.T) {
	s := newTestServer(t)
	token, uid := s.register(t, "alice")

	status, res := s.do(t, http.MethodGet, "/api/profiles/current", token, nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"nonprofile":"There is no profile for this user"}`, string(res))

	status, res = s.do(t, http.MethodPost, "/api/profiles", token, profileBody("alice"))
	require.Equal(t, http.StatusOK, status, string(res))
	p := decode[profileData](t, res)
	assert.Equal(t, "alice", p.Handle)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, p.Skills)
	assert.Equal(t, uid, p.User.ID)
	assert.Equal(t, "alice", p.User.Name)
	assert.Equal(t, "https://twitter.com/alice", p.Social["twitter"])

	status, res = s.do(t, http.MethodGet, "/api/profiles/handle/alice", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, p.ID, decode[profileData](t, res).ID)

	status, res = s.do(t, http.MethodGet, "/api/profiles/user/"+uid.String(), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, p.ID, decode[profileData](t, res).ID)

	status, res = s.do(t, http.MethodGet, "/api/profiles/all", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]profileData](t, res), 1)

	events := s.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, profile.EventCreated, events[0].Type)
}

func TestProfileNotFoundResponses(t *testing.T) {
	s := newTestServer(t)

	status, res := s.do(t, http.MethodGet, "/api/profiles/handle/ghost", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"nonprofile":"There is no profile for this handle"}`, string(res))

	status, res = s.do(t, http.MethodGet, "/api/profiles/user/"+uuid.NewString(), "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"nonprofile":"There is no profile for this user id"}`, string(res))

	status, res = s.do(t, http.MethodGet, "/api/profiles/user/not-a-uuid", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"nonprofile":"There is no profile for this user id"}`, string(res))

	status, res = s.do(t, http.MethodGet, "/api/profiles/all", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"nonprofiles":"There are no profiles"}`, string(res))
}

func TestCreateProfileValidationAndDuplicateHandle(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.register(t, "alice")
	bob, _ := s.register(t, "bobby")

	status, res := s.do(t, http.MethodPost, "/api/profiles", alice, map[string]any{"handle": "a", "website": "not a url"})
	require.Equal(t, http.StatusBadRequest, status)
	errs := decode[map[string]string](t, res)
	assert.Equal(t, "Handle needs to be between 2 and 40 characters", errs["handle"])
	assert.Contains(t, errs, "status")
	assert.Contains(t, errs, "skills")
	assert.Contains(t, errs, "website")

	status, _ = s.do(t, http.MethodPost, "/api/profiles", alice, profileBody("dev"))
	require.Equal(t, http.StatusOK, status)

	status, res = s.do(t, http.MethodPost, "/api/profiles", bob, profileBody("dev"))
	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"handle":"That handle already exists"}`, string(res))
	assert.Equal(t, 1, s.profiles.Len())
}

func TestUpdateProfileKeepsAbsentFields(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")

	body := profileBody("alice")
	body["company"] = "Acme"
	status, _ := s.do(t, http.MethodPost, "/api/profiles", token, body)
	require.Equal(t, http.StatusOK, status)

	status, res := s.do(t, http.MethodPost, "/api/profiles", token, map[string]any{
		"handle": "alice", "status": "Senior Developer", "skills": "Go",
	})
	require.Equal(t, http.StatusOK, status)

	p := decode[map[string]any](t, res)
	assert.Equal(t, "Acme", p["company"])
	assert.Equal(t, "Senior Developer", p["status"])
}

func TestExperienceAndEducationLifecycle(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")

	status, res := s.do(t, http.MethodPost, "/api/profiles/experience", token, map[string]any{
		"title": "Dev", "company": "Acme", "from": "2020-01-01",
	})
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"nonprofile":"There is no profile for this user"}`, string(res))

	status, _ = s.do(t, http.MethodPost, "/api/profiles", token, profileBody("alice"))
	require.Equal(t, http.StatusOK, status)

	status, res = s.do(t, http.MethodPost, "/api/profiles/experience", token, map[string]any{"title": "", "from": "yesterday"})
	require.Equal(t, http.StatusBadRequest, status)
	errs := decode[map[string]string](t, res)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "company")
	assert.Equal(t, "From date is not a valid date", errs["from"])

	for _, title := range []string{"first", "second", "third"} {
		status, res = s.do(t, http.MethodPost, "/api/profiles/experience", token, map[string]any{
			"title": title, "company": "Acme", "from": "2020-01-01", "to": "2021-01-01T00:00:00Z",
		})
		require.Equal(t, http.StatusOK, status, string(res))
	}
	p := decode[profileData](t, res)
	require.Len(t, p.Experience, 3)
	assert.Equal(t, "third", p.Experience[0].Title)

	status, res = s.do(t, http.MethodDelete, "/api/profiles/experience/"+p.Experience[1].ID.String(), token, nil)
	require.Equal(t, http.StatusOK, status)
	p = decode[profileData](t, res)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "third", p.Experience[0].Title)
	assert.Equal(t, "first", p.Experience[1].Title)

	status, res = s.do(t, http.MethodDelete, "/api/profiles/experience/"+uuid.NewString(), token, nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"experiencenotfound":"Experience not found"}`, string(res))

	status, res = s.do(t, http.MethodPost, "/api/profiles/education", token, map[string]any{
		"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2014-09-01",
	})
	require.Equal(t, http.StatusOK, status, string(res))
	p = decode[profileData](t, res)
	require.Len(t, p.Education, 1)

	status, res = s.do(t, http.MethodDelete, "/api/profiles/education/not-a-uuid", token, nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"educationnotfound":"Education not found"}`, string(res))

	status, res = s.do(t, http.MethodDelete, "/api/profiles/education/"+p.Education[0].ID.String(), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[profileData](t, res).Education)
}

func TestDeleteProfileRemovesUser(t *testing.T) {
	s := newTestServer(t)
	token, uid := s.register(t, "alice")

	status, _ := s.do(t, http.MethodPost, "/api/profiles", token, profileBody("alice"))
	require.Equal(t, http.StatusOK, status)

	status, res := s.do(t, http.MethodDelete, "/api/profiles", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success":true}`, string(res))

	assert.Equal(t, 0, s.profiles.Len())
	_, err := s.users.GetUserByID(context.Background(), uid)
	assert.Error(t, err)

	status, _ = s.do(t, http.MethodGet, "/api/profiles/handle/alice", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCacheInvalidatedAfterWrite(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")

	status, _ := s.do(t, http.MethodPost, "/api/profiles", token, profileBody("alice"))
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/api/profiles/handle/alice", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, s.cache.Has("profiles:handle:alice"))

	status, _ = s.do(t, http.MethodPost, "/api/profiles", token, map[string]any{"handle": "alice", "status": "Lead", "skills": "Go"})
	require.Equal(t, http.StatusOK, status)
	assert.False(t, s.cache.Has("profiles:handle:alice"))

	status, res := s.do(t, http.MethodGet, "/api/profiles/handle/alice", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Lead", decode[profileData](t, res).Status)
}

func TestStoreFailureOnReadIsNotFoundWithError(t *testing.T) {
	s := newTestServer(t)
	s.profiles.Err = errors.New("connection reset")

	status, res := s.do(t, http.MethodGet, "/api/profiles/all", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	data := decode[map[string]string](t, res)
	assert.Contains(t, data["error"], "connection reset")
}

func TestStoreFailureOnWriteIsInternalError(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")
	s.profiles.Err = errors.New("connection reset")

	status, res := s.do(t, http.MethodPost, "/api/profiles", token, profileBody("alice"))
	require.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"message":"internal server error"}`, string(res))
}

func TestGitHubReposWithoutClient(t *testing.T) {
	s := newTestServer(t)
	status, res := s.do(t, http.MethodGet, "/api/profiles/github/octocat", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, decode[map[string]string](t, res), "norepos")
}

func TestHealthReportsDatabaseDown(t *testing.T) {
	s := newTestServer(t)
	status, res := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, status)
	data := decode[map[string]string](t, res)
	assert.Equal(t, "down", data["database"])
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("5000")
	require.NoError(t, err)
	assert.Equal(t, ":5000", addr)

	addr, err = ListenAddr(":8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	_, err = ListenAddr(" ")
	assert.Error(t, err)
}
