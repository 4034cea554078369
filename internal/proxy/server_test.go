package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"demodeck/internal/metrics"
	"demodeck/internal/vercel"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *MemoryBackend) {
	t.Helper()
	b := NewMemoryBackend()
	b.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return NewRouter(b, nil, nil), b
}

func serve(r http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRouterGetActions(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		status int
		key    string
		count  int
	}{
		{"teams", "/api/vercel?action=teams", http.StatusOK, "teams", 2},
		{"all projects", "/api/vercel?action=projects", http.StatusOK, "projects", 3},
		{"team projects", "/api/vercel?action=projects&teamId=team_labs", http.StatusOK, "projects", 1},
		{"env", "/api/vercel?action=env&projectId=prj_storefront", http.StatusOK, "envs", 2},
		{"env of empty project", "/api/vercel?action=env&projectId=prj_video", http.StatusOK, "envs", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.target, "")
			require.Equal(t, tt.status, w.Code, w.Body.String())
			list, ok := decode(t, w)[tt.key].([]any)
			require.True(t, ok, "missing %q array in %s", tt.key, w.Body.String())
			assert.Len(t, list, tt.count)
		})
	}
}

func TestRouterGetProject(t *testing.T) {
	r, _ := newTestRouter(t)
	w := serve(r, http.MethodGet, "/api/vercel?action=project&projectId=prj_analytics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var p vercel.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "analytics-dashboard", p.Name)
	assert.Equal(t, "team_acme", p.TeamID)
}

func TestRouterErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{"missing action", http.MethodGet, "/api/vercel", "", http.StatusBadRequest, "action is required"},
		{"unknown action", http.MethodGet, "/api/vercel?action=deploy", "", http.StatusBadRequest, "unknown action: deploy"},
		{"missing project", http.MethodGet, "/api/vercel?action=env", "", http.StatusBadRequest, "projectId is required"},
		{"unknown project", http.MethodGet, "/api/vercel?action=project&projectId=nope", "", http.StatusNotFound, "project not found: nope"},
		{"post to teams", http.MethodPost, "/api/vercel?action=teams", `{}`, http.StatusBadRequest, "unknown action: teams"},
		{"bad json", http.MethodPost, "/api/vercel?action=env&projectId=prj_video", `{`, http.StatusBadRequest, "invalid environment variable"},
		{"bad key", http.MethodPost, "/api/vercel?action=env&projectId=prj_video", `{"key":"1BAD","value":"x"}`, http.StatusBadRequest, "must be letters"},
		{"empty value", http.MethodPost, "/api/vercel?action=env&projectId=prj_video", `{"key":"OK"}`, http.StatusBadRequest, "value is required"},
		{"bad target", http.MethodPost, "/api/vercel?action=env&projectId=prj_video", `{"key":"OK","value":"1","target":["staging"]}`, http.StatusBadRequest, `unknown target "staging"`},
		{"duplicate", http.MethodPost, "/api/vercel?action=env&projectId=prj_storefront", `{"key":"STRIPE_SECRET_KEY","value":"x","target":["production"]}`, http.StatusConflict, "already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)
			msg, _ := decode(t, w)["error"].(string)
			assert.Contains(t, msg, tt.message)
		})
	}
}

func TestRouterCreateEnv(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodPost, "/api/vercel?action=env&projectId=prj_video",
		`{"key":" CDN_TOKEN ","value":"abc","target":["preview"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Created vercel.EnvVar `json:"created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "CDN_TOKEN", out.Created.Key)
	assert.Equal(t, vercel.EnvEncrypted, out.Created.Type)
	assert.Equal(t, []string{vercel.TargetPreview}, out.Created.Target)
	assert.Empty(t, out.Created.Value, "encrypted values are masked")
	assert.True(t, strings.HasPrefix(out.Created.ID, "env_"))
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli(), out.Created.CreatedAt)

	// Same key on a different target is allowed.
	w = serve(r, http.MethodPost, "/api/vercel?action=env&projectId=prj_video",
		`{"key":"CDN_TOKEN","value":"abc","type":"plain","target":["production"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, http.MethodGet, "/api/vercel?action=env&projectId=prj_video", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["envs"], 2)
}

func TestMemoryBackendMasksSecrets(t *testing.T) {
	b := NewMemoryBackend()
	envs, err := b.Envs(context.Background(), "prj_storefront")
	require.NoError(t, err)
	require.Len(t, envs, 2)
	assert.Equal(t, "https://api.acme.test", envs[0].Value)
	assert.Empty(t, envs[1].Value)

	// Masking must not leak into the stored copy.
	envs[0].Target[0] = "mutated"
	again, err := b.Envs(context.Background(), "prj_storefront")
	require.NoError(t, err)
	assert.Equal(t, vercel.TargetProduction, again[0].Target[0])
}

func TestRouterHealthAndMetrics(t *testing.T) {
	m := metrics.New(false)
	r := NewRouter(NewMemoryBackend(), m, nil)

	w := serve(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	serve(r, http.MethodGet, "/api/vercel?action=teams", "")
	serve(r, http.MethodGet, "/api/vercel?action=nope", "")

	w = serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `demodeck_api_requests_total{action="teams",code="200",method="GET"} 1`)
	assert.Contains(t, w.Body.String(), `demodeck_api_requests_total{action="nope",code="400",method="GET"} 1`)
}

func TestClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(NewRouter(NewMemoryBackend(), nil, nil))
	defer srv.Close()

	client, err := vercel.NewClient(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	teams, err := client.ListTeams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	projects, err := client.ListProjects(ctx, "team_acme")
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	created, err := client.CreateEnv(ctx, "prj_analytics", vercel.CreateEnvRequest{Key: "FEATURE_FLAG", Value: "on", Type: vercel.EnvPlain})
	require.NoError(t, err)
	assert.Equal(t, "on", created.Value)
	assert.Equal(t, vercel.AllTargets, created.Target)

	_, err = client.CreateEnv(ctx, "prj_analytics", vercel.CreateEnvRequest{Key: "FEATURE_FLAG", Value: "off"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, vercel.StatusOf(err))
	assert.Contains(t, err.Error(), "already exists")

	_, err = client.GetProject(ctx, "prj_missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, vercel.StatusOf(err))
}

func TestServerStartStop(t *testing.T) {
	s := NewServer("127.0.0.1:0", NewRouter(NewMemoryBackend(), nil, nil), nil)
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(ErrProjectNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(ErrDuplicateEnv))
	assert.Equal(t, http.StatusBadRequest, statusFor(unknownAction("x")))
	assert.Equal(t, http.StatusBadRequest, statusFor(unknownAction("")))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(context.Canceled))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("disk full")))
}

func TestMemoryBackendTargetsNotShared(t *testing.T) {
	b := NewMemoryBackend()
	_, err := b.CreateEnv(context.Background(), "prj_video", vercel.CreateEnvRequest{Key: "A", Value: "1"})
	require.NoError(t, err)
	_, err = b.CreateEnv(context.Background(), "prj_video", vercel.CreateEnvRequest{Key: "B", Value: "2"})
	require.NoError(t, err)

	for project, envs := range b.envs {
		for _, ev := range envs {
			if len(ev.Target) > 0 && &ev.Target[0] == &vercel.AllTargets[0] {
				t.Errorf("%s/%s shares the default target slice", project, ev.Key)
			}
		}
	}
	videoEnvs := b.envs["prj_video"]
	require.Len(t, videoEnvs, 2)
	videoEnvs[0].Target[0] = "mutated"
	assert.Equal(t, vercel.TargetProduction, videoEnvs[1].Target[0])
	assert.Equal(t, vercel.TargetProduction, vercel.AllTargets[0])
}
