package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skill-swap/internal/config"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig() config.Config {
	return config.Config{
		App:      config.AppConfig{AppName: "skill-swap-test", Environment: "test", HTTPPort: "0"},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		JWT: config.JWTConfig{
			AccessSecret:     "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessExpiresIn:  time.Hour,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, cleanup, err := Bootstrap(context.Background(), testConfig(), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return a
}

func call(t *testing.T, f *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

type registered struct {
	ID    string
	Token string
}

func register(t *testing.T, f *fiber.App, email, name string) registered {
	t.Helper()
	status, env := call(t, f, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return registered{ID: data.User.ID, Token: data.AccessToken}
}

func TestAPI_RequiresBearerToken(t *testing.T) {
	a := newTestApp(t)

	status, env := call(t, a.Fiber, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, http.StatusUnauthorized, env.Status)

	status, _ = call(t, a.Fiber, http.MethodGet, "/api/v1/matches", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_RegisterRejectsDuplicateEmail(t *testing.T) {
	a := newTestApp(t)
	register(t, a.Fiber, "dup@example.com", "Dup")

	status, _ := call(t, a.Fiber, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "DUP@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestAPI_LoginAndRefresh(t *testing.T) {
	a := newTestApp(t)
	register(t, a.Fiber, "login@example.com", "Login")

	status, _ := call(t, a.Fiber, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "login@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := call(t, a.Fiber, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "login@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))

	status, _ = call(t, a.Fiber, http.MethodPost, "/api/v1/auth/refresh", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status, "an access token must not refresh")

	status, _ = call(t, a.Fiber, http.MethodPost, "/api/v1/auth/refresh", tokens.RefreshToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_ProfileMatchAndExchangeFlow(t *testing.T) {
	a := newTestApp(t)
	alice := register(t, a.Fiber, "alice@example.com", "Alice")
	bob := register(t, a.Fiber, "bob@example.com", "Bob")

	status, _ := call(t, a.Fiber, http.MethodPut, "/api/v1/users/me", alice.Token, map[string]any{
		"teaching_skills":    []string{"Go"},
		"learning_interests": []string{"Guitar"},
	})
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, a.Fiber, http.MethodPut, "/api/v1/users/me", bob.Token, map[string]any{
		"teaching_skills":    []string{"guitar lessons"},
		"learning_interests": []string{"go"},
	})
	require.Equal(t, http.StatusOK, status)

	status, env := call(t, a.Fiber, http.MethodGet, "/api/v1/matches", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var matches struct {
		Items []struct {
			UserID        string `json:"user_id"`
			MatchingSkill string `json:"matching_skill"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &matches))
	require.Equal(t, 1, matches.Total)
	assert.Equal(t, bob.ID, matches.Items[0].UserID)
	assert.Equal(t, "Guitar", matches.Items[0].MatchingSkill)

	// Alice learns guitar from Bob.
	status, env = call(t, a.Fiber, http.MethodPost, "/api/v1/exchanges", alice.Token, map[string]any{
		"teacher_id": bob.ID,
		"skill":      "Guitar",
		"duration":   3,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	base := "/api/v1/exchanges/" + created.ID

	status, _ = call(t, a.Fiber, http.MethodPost, base+"/complete", bob.Token, nil)
	assert.Equal(t, http.StatusConflict, status, "a pending exchange cannot complete")

	status, _ = call(t, a.Fiber, http.MethodPost, base+"/schedule", bob.Token, map[string]string{"scheduled_for": "not-a-date"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, a.Fiber, http.MethodPost, base+"/schedule", bob.Token, map[string]string{"date": "2999-01-01", "time": "10:00"})
	require.Equal(t, http.StatusOK, status, env.Message)
	var scheduled struct {
		Status       string    `json:"status"`
		Role         string    `json:"role"`
		ScheduledFor time.Time `json:"scheduled_for"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &scheduled))
	assert.Equal(t, "scheduled", scheduled.Status)
	assert.Equal(t, "teacher", scheduled.Role)
	assert.True(t, scheduled.ScheduledFor.Equal(time.Date(2999, 1, 1, 10, 0, 0, 0, time.UTC)))

	status, _ = call(t, a.Fiber, http.MethodPost, base+"/schedule", alice.Token, map[string]string{"scheduled_for": "2999-02-01T10:00:00Z"})
	assert.Equal(t, http.StatusConflict, status, "re-scheduling is rejected")

	status, env = call(t, a.Fiber, http.MethodGet, "/api/v1/exchanges/upcoming", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), created.ID)

	status, env = call(t, a.Fiber, http.MethodGet, base, alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var details struct {
		Role    string `json:"role"`
		Teacher struct {
			Name string `json:"name"`
		} `json:"teacher"`
		Student struct {
			Name string `json:"name"`
		} `json:"student"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &details))
	assert.Equal(t, "student", details.Role)
	assert.Equal(t, "Bob", details.Teacher.Name)
	assert.Equal(t, "Alice", details.Student.Name)

	status, _ = call(t, a.Fiber, http.MethodPost, base+"/complete", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)

	balance := func(token string) (int, int) {
		status, env := call(t, a.Fiber, http.MethodGet, "/api/v1/users/me/progress", token, nil)
		require.Equal(t, http.StatusOK, status)
		var p struct {
			TimeBalance        int `json:"time_balance"`
			CompletedExchanges int `json:"completed_exchanges"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &p))
		return p.TimeBalance, p.CompletedExchanges
	}
	bal, done := balance(bob.Token)
	assert.Equal(t, 3, bal)
	assert.Equal(t, 1, done)
	bal, done = balance(alice.Token)
	assert.Equal(t, -3, bal)
	assert.Equal(t, 1, done)

	status, _ = call(t, a.Fiber, http.MethodPost, base+"/cancel", alice.Token, nil)
	assert.Equal(t, http.StatusConflict, status, "a completed exchange is terminal")
}

func TestAPI_ExchangeAccessIsLimitedToParties(t *testing.T) {
	a := newTestApp(t)
	alice := register(t, a.Fiber, "a@example.com", "A")
	bob := register(t, a.Fiber, "b@example.com", "B")
	eve := register(t, a.Fiber, "e@example.com", "E")

	status, _ := call(t, a.Fiber, http.MethodPost, "/api/v1/exchanges", eve.Token, map[string]any{
		"teacher_id": bob.ID, "student_id": alice.ID, "skill": "Go", "duration": 1,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, env := call(t, a.Fiber, http.MethodPost, "/api/v1/exchanges", alice.Token, map[string]any{
		"teacher_id": bob.ID, "skill": "Go", "duration": 1,
	})
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, _ = call(t, a.Fiber, http.MethodGet, "/api/v1/exchanges/"+created.ID, eve.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, a.Fiber, http.MethodPost, "/api/v1/exchanges/"+created.ID+"/cancel", eve.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, a.Fiber, http.MethodGet, "/api/v1/exchanges/not-a-uuid", alice.Token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, a.Fiber, http.MethodPost, "/api/v1/exchanges", alice.Token, map[string]any{
		"teacher_id": alice.ID, "skill": "Go", "duration": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status, "teacher and student must differ")

	status, _ = call(t, a.Fiber, http.MethodPost, "/api/v1/exchanges", alice.Token, map[string]any{
		"teacher_id": bob.ID, "skill": "Go", "duration": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, a.Fiber, http.MethodPost, "/api/v1/exchanges/"+created.ID+"/cancel", bob.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"status":"cancelled"`)
}

func TestAPI_SkillsCatalog(t *testing.T) {
	a := newTestApp(t)
	u := register(t, a.Fiber, "s@example.com", "S")

	var list struct {
		Items []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"items"`
		Total int `json:"total"`
	}

	status, env := call(t, a.Fiber, http.MethodGet, "/api/v1/skills", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 17, list.Total)

	status, env = call(t, a.Fiber, http.MethodGet, "/api/v1/skills?category=Music", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 2, list.Total)
	for _, it := range list.Items {
		assert.Equal(t, "Music", it.Category)
	}

	status, env = call(t, a.Fiber, http.MethodGet, "/api/v1/skills?q=python", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Python Basics", list.Items[0].Name)
}

func TestAPI_ProgressAndAchievements(t *testing.T) {
	a := newTestApp(t)
	u := register(t, a.Fiber, "p@example.com", "P")

	status, _ := call(t, a.Fiber, http.MethodPut, "/api/v1/users/me/progress", u.Token, map[string]any{"skill": "Go", "progress": 101})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, a.Fiber, http.MethodPut, "/api/v1/users/me/progress", u.Token, map[string]any{"skill": "Go", "progress": 40})
	require.Equal(t, http.StatusOK, status)

	for i := 0; i < 2; i++ {
		status, _ = call(t, a.Fiber, http.MethodPost, "/api/v1/users/me/achievements", u.Token, map[string]string{"achievement": "First Exchange"})
		require.Equal(t, http.StatusOK, status)
	}

	status, env := call(t, a.Fiber, http.MethodGet, "/api/v1/users/me/progress", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var p struct {
		Achievements  []string       `json:"achievements"`
		SkillProgress map[string]int `json:"skill_progress"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, []string{"First Exchange"}, p.Achievements)
	assert.Equal(t, map[string]int{"Go": 40}, p.SkillProgress)

	status, env = call(t, a.Fiber, http.MethodGet, "/api/v1/users/"+u.ID, u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(env.Data), "time_balance", "public profiles hide the balance")
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestApp(t)

	status, env := call(t, a.Fiber, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"database":"ok"`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := a.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "skillswap_http_requests_total")
}
