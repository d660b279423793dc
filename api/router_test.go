package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	api_i "github.com/lmoura00/JogoLabirinto/api/i"
	"github.com/lmoura00/JogoLabirinto/api/identity"
	levelapi "github.com/lmoura00/JogoLabirinto/api/level"
	"github.com/lmoura00/JogoLabirinto/game/maze"
	"github.com/lmoura00/JogoLabirinto/infrastruture/progress"
	"github.com/lmoura00/JogoLabirinto/infrastruture/repo"
	"github.com/lmoura00/JogoLabirinto/infrastruture/token"
	"github.com/lmoura00/JogoLabirinto/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "correct-horse-battery-staple-42"

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokenizer := token.NewJwtService("test-secret", "test")
	auth, err := service.NewAuthService(service.AuthConfig{
		PlayerRepo: repo.NewMemoryPlayerRepo(),
		Tokenizer:  tokenizer,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	levels, err := service.NewLevelManager(service.LevelConfig{
		Store:  progress.NewMemoryStore(),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	router := NewRouter(Config{
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{identity.NewIdentityServer(auth), levelapi.NewLevelController(levels)},
		AuthorizationMiddleware: identity.Authoriz(tokenizer),
		Logger:                  zerolog.Nop(),
	})
	return &testServer{t: t, engine: router.Engine()}
}

// do sends a JSON request and decodes a JSON response into out when given.
func (s *testServer) do(method, path, bearer string, body, out any) int {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (s *testServer) login(username string) string {
	s.t.Helper()
	creds := identity.AuthRequest{Username: username, Password: strongPassword}
	require.Equal(s.t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/auth/register", "", creds, nil))

	var resp identity.AuthResponse
	require.Equal(s.t, http.StatusOK, s.do(http.MethodPost, "/api/v1/auth/login", "", creds, &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

// route returns the direction names of a shortest path over a drawn grid.
func route(t *testing.T, view levelapi.SessionResponse) []string {
	t.Helper()
	steps := []struct {
		name string
		dx   int
		dy   int
	}{{"up", 0, -1}, {"down", 0, 1}, {"left", -1, 0}, {"right", 1, 0}}

	type link struct {
		from maze.Position
		name string
	}
	cameFrom := map[maze.Position]link{}
	seen := map[maze.Position]bool{view.Position: true}
	queue := []maze.Position{view.Position}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == view.Goal {
			var names []string
			for cur != view.Position {
				l := cameFrom[cur]
				names = append([]string{l.name}, names...)
				cur = l.from
			}
			return names
		}
		for _, st := range steps {
			next := maze.Position{X: cur.X + st.dx, Y: cur.Y + st.dy}
			if next.X < 0 || next.Y < 0 || next.X >= view.Size || next.Y >= view.Size {
				continue
			}
			if view.Grid[next.Y][next.X] == maze.Wall || seen[next] {
				continue
			}
			seen[next] = true
			cameFrom[next] = link{from: cur, name: st.name}
			queue = append(queue, next)
		}
	}

	t.Fatal("grid has no path to the goal")
	return nil
}

func TestRouterRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	tok := srv.login("runner")

	var view levelapi.SessionResponse
	require.Equal(t, http.StatusCreated, srv.do(http.MethodPost, "/api/v1/levels", tok, nil, &view))
	assert.Equal(t, 1, view.Level)
	assert.Equal(t, 7, view.Size)
	assert.Equal(t, maze.Start, view.Position)
	assert.Equal(t, "active", view.State)
	assert.Equal(t, maze.Goal, view.Grid[view.Goal.Y][view.Goal.X])
	assert.Nil(t, view.Completion)

	sessionPath := "/api/v1/sessions/" + view.ID

	var fetched levelapi.SessionResponse
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, sessionPath, tok, nil, &fetched))
	assert.Equal(t, view.ID, fetched.ID)

	for _, dir := range route(t, view) {
		require.Equal(t, http.StatusOK, srv.do(http.MethodPost, sessionPath+"/moves", tok, levelapi.MoveRequest{Direction: dir}, &view))
	}
	assert.Equal(t, "completed", view.State)
	require.NotNil(t, view.Completion)
	assert.Equal(t, 1, view.Completion.Level)
	assert.Equal(t, view.Goal, view.Position)

	var errBody map[string]string
	assert.Equal(t, http.StatusConflict, srv.do(http.MethodPost, sessionPath+"/moves", tok, levelapi.MoveRequest{Direction: "up"}, &errBody))

	var p levelapi.ProgressResponse
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/v1/progress", tok, nil, &p))
	assert.Equal(t, 2, p.CurrentLevel)
	assert.Equal(t, []levelapi.LevelScore{{Level: 1, Score: view.Completion.Score}}, p.Scores)
	assert.Equal(t, view.Completion.Score, p.TotalScore)

	require.Equal(t, http.StatusCreated, srv.do(http.MethodPost, "/api/v1/levels", tok, levelapi.StartRequest{}, &view))
	assert.Equal(t, 2, view.Level, "an empty level continues the trail")

	assert.Equal(t, http.StatusNoContent, srv.do(http.MethodDelete, "/api/v1/progress", tok, nil, nil))
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/v1/progress", tok, nil, &p))
	assert.Equal(t, 1, p.CurrentLevel)
	assert.Empty(t, p.Scores)
	assert.Zero(t, p.TotalScore)
}

func TestRouterErrors(t *testing.T) {
	srv := newTestServer(t)
	tok := srv.login("runner")
	other := srv.login("walker")

	var view levelapi.SessionResponse
	require.Equal(t, http.StatusCreated, srv.do(http.MethodPost, "/api/v1/levels", tok, levelapi.StartRequest{Level: 3}, &view))
	assert.Equal(t, 11, view.Size)
	sessionPath := "/api/v1/sessions/" + view.ID

	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		body   any
		want   int
	}{
		{name: "missing token", method: http.MethodGet, path: "/api/v1/progress", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/v1/progress", bearer: "nope", want: http.StatusUnauthorized},
		{name: "negative level", method: http.MethodPost, path: "/api/v1/levels", bearer: tok, body: levelapi.StartRequest{Level: -1}, want: http.StatusBadRequest},
		{name: "unknown direction", method: http.MethodPost, path: sessionPath + "/moves", bearer: tok, body: levelapi.MoveRequest{Direction: "north"}, want: http.StatusBadRequest},
		{name: "missing direction", method: http.MethodPost, path: sessionPath + "/moves", bearer: tok, body: map[string]string{}, want: http.StatusBadRequest},
		{name: "bad session id", method: http.MethodGet, path: "/api/v1/sessions/not-a-uuid", bearer: tok, want: http.StatusBadRequest},
		{name: "unknown session", method: http.MethodGet, path: "/api/v1/sessions/00000000-0000-0000-0000-000000000001", bearer: tok, want: http.StatusNotFound},
		{name: "someone else's session", method: http.MethodGet, path: sessionPath, bearer: other, want: http.StatusForbidden},
		{name: "wrong password", method: http.MethodPost, path: "/api/v1/auth/login", body: identity.AuthRequest{Username: "runner", Password: "wrong"}, want: http.StatusUnauthorized},
		{name: "weak password", method: http.MethodPost, path: "/api/v1/auth/register", body: identity.AuthRequest{Username: "newbie", Password: "123"}, want: http.StatusBadRequest},
		{name: "taken username", method: http.MethodPost, path: "/api/v1/auth/register", body: identity.AuthRequest{Username: "runner", Password: strongPassword}, want: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, srv.do(tt.method, tt.path, tt.bearer, tt.body, nil))
		})
	}
}
