package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playautopublish/console-backend/internal/bootstrap"
	projdomain "github.com/playautopublish/console-backend/internal/projects/domain"
	pubdomain "github.com/playautopublish/console-backend/internal/publish/domain"
	pubservice "github.com/playautopublish/console-backend/internal/publish/service"
	"github.com/playautopublish/console-backend/internal/seed"
	"github.com/playautopublish/console-backend/internal/state"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the full API with instant pacing and a fixed failure
// decision so publish runs finish deterministically.
func newTestRouter(t *testing.T, fail bool) (*gin.Engine, *state.Store) {
	t.Helper()

	store := state.NewStore()
	require.NoError(t, seed.Apply(store, ""))

	runner := pubservice.NewRunner(store, pubservice.Options{
		Decider:      pubservice.FixedDecider(fail),
		PacerFactory: func(time.Duration) pubservice.Pacer { return pubservice.Immediate{} },
	})

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "publish-console-backend",
		Version:     "test",
		Store:       store,
		Runner:      runner,
		Wizard:      pubservice.NewWizard(runner),
	})
	return r, store
}

type tokenPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type apiResponse struct {
	OK            bool                      `json:"ok"`
	Error         string                    `json:"error"`
	User          map[string]any            `json:"user"`
	Token         *tokenPayload             `json:"token"`
	Project       *projdomain.Project       `json:"project"`
	Projects      []projdomain.Project      `json:"projects"`
	Errors        []projdomain.ProjectError `json:"errors"`
	Run           *pubdomain.Run            `json:"run"`
	Stage         *pubservice.Stage         `json:"stage"`
	Notifications []map[string]any          `json:"notifications"`
	Unread        int                       `json:"unread"`
}

type client struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func (c *client) do(method, path string, body any) (int, apiResponse) {
	c.t.Helper()

	var reader io.Reader
	contentType := ""
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func (c *client) login() {
	c.t.Helper()
	code, resp := c.do(http.MethodPost, "/api/v1/auth/login", nil)
	require.Equal(c.t, http.StatusOK, code)
	require.NotNil(c.t, resp.Token)
	c.token = resp.Token.AccessToken
}

func (c *client) uploadAAB(projectID string) (int, apiResponse) {
	c.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "app-release.aab")
	require.NoError(c.t, err)
	_, err = part.Write([]byte("binary"))
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+projectID+"/artifacts/aab", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func (c *client) waitForRun(runID string) pubdomain.Run {
	c.t.Helper()
	var final pubdomain.Run
	require.Eventually(c.t, func() bool {
		code, resp := c.do(http.MethodGet, "/api/v1/publish/runs/"+runID, nil)
		if code != http.StatusOK || resp.Run == nil {
			return false
		}
		final = *resp.Run
		return final.Status != pubdomain.RunRunning
	}, 5*time.Second, 10*time.Millisecond)
	return final
}

func TestPublishFlow_Success(t *testing.T) {
	r, _ := newTestRouter(t, false)
	c := &client{t: t, r: r}

	t.Run("routes are locked before login", func(t *testing.T) {
		code, resp := c.do(http.MethodGet, "/api/v1/projects", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.False(t, resp.OK)
	})

	c.login()

	t.Run("seeded projects listed", func(t *testing.T) {
		code, resp := c.do(http.MethodGet, "/api/v1/projects", nil)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, resp.Projects, 3)
		assert.Equal(t, "TaskMaster Pro", resp.Projects[0].Name)
	})

	code, created := c.do(http.MethodPost, "/api/v1/projects", map[string]any{
		"name":         "Weather Now",
		"package_name": "com.example.weather",
	})
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, created.Project)
	id := created.Project.ID
	assert.Equal(t, projdomain.StatusDraft, created.Project.Status)

	t.Run("new draft becomes the selection", func(t *testing.T) {
		code, resp := c.do(http.MethodGet, "/api/v1/selection", nil)
		require.Equal(t, http.StatusOK, code)
		require.NotNil(t, resp.Project)
		assert.Equal(t, id, resp.Project.ID)
	})

	t.Run("metadata patch", func(t *testing.T) {
		code, resp := c.do(http.MethodPatch, "/api/v1/projects/"+id, map[string]any{
			"metadata": map[string]any{
				"short_description":  "Minute-by-minute forecasts",
				"privacy_policy_url": "https://example.com/privacy",
			},
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Minute-by-minute forecasts", resp.Project.Metadata.ShortDescription)
	})

	t.Run("aab upload", func(t *testing.T) {
		code, resp := c.uploadAAB(id)
		require.Equal(t, http.StatusOK, code)
		require.NotNil(t, resp.Project.AABFile)
		assert.Equal(t, "app-release.aab", resp.Project.AABFile.FileName)
	})

	t.Run("wizard advances to review", func(t *testing.T) {
		for _, want := range []string{"Metadata", "Review"} {
			code, resp := c.do(http.MethodPost, "/api/v1/projects/"+id+"/wizard/next", nil)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, want, resp.Stage.Name)
		}
	})

	code, started := c.do(http.MethodPost, "/api/v1/projects/"+id+"/publish", nil)
	require.Equal(t, http.StatusAccepted, code)
	require.NotNil(t, started.Run)

	run := c.waitForRun(started.Run.ID)
	assert.Equal(t, pubdomain.RunSucceeded, run.Status)
	for _, step := range run.Steps {
		assert.Equal(t, pubdomain.StepCompleted, step.Status)
	}

	t.Run("project published with full progress", func(t *testing.T) {
		code, resp := c.do(http.MethodGet, "/api/v1/projects/"+id, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, projdomain.StatusPublished, resp.Project.Status)
		assert.Equal(t, 100, resp.Project.Progress)
	})

	t.Run("success notification queued", func(t *testing.T) {
		code, resp := c.do(http.MethodGet, "/api/v1/notifications", nil)
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, resp.Notifications)
		assert.Equal(t, "success", resp.Notifications[0]["kind"])
		assert.Equal(t, 1, resp.Unread)
	})
}

func TestPublishFlow_PolicyFailure(t *testing.T) {
	r, _ := newTestRouter(t, true)
	c := &client{t: t, r: r}
	c.login()

	// FitTracker, the seeded project missing a privacy policy URL.
	id := "3"

	code, started := c.do(http.MethodPost, "/api/v1/projects/"+id+"/publish", nil)
	require.Equal(t, http.StatusAccepted, code)

	run := c.waitForRun(started.Run.ID)
	assert.Equal(t, pubdomain.RunFailed, run.Status)
	assert.Equal(t, pubservice.PolicyFailureMessage, run.Error)

	t.Run("project carries the publish error", func(t *testing.T) {
		code, resp := c.do(http.MethodGet, "/api/v1/projects/"+id, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, projdomain.StatusError, resp.Project.Status)

		var messages []string
		for _, e := range resp.Project.Errors {
			messages = append(messages, e.Message)
		}
		assert.Contains(t, messages, pubservice.PolicyFailureMessage)
	})

	t.Run("error notification queued", func(t *testing.T) {
		code, resp := c.do(http.MethodGet, "/api/v1/notifications", nil)
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, resp.Notifications)
		assert.Equal(t, "error", resp.Notifications[0]["kind"])
	})

	t.Run("validate reports the missing policy", func(t *testing.T) {
		code, resp := c.do(http.MethodPost, "/api/v1/projects/"+id+"/validate", nil)
		require.Equal(t, http.StatusOK, code)

		var messages []string
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		assert.Contains(t, messages, "Privacy policy URL is required")
	})
}

func TestPublishFlow_StreamDeliversTerminalEvent(t *testing.T) {
	r, _ := newTestRouter(t, false)
	c := &client{t: t, r: r}
	c.login()

	srv := httptest.NewServer(r)
	defer srv.Close()

	code, started := c.do(http.MethodPost, "/api/v1/projects/1/publish", nil)
	require.Equal(t, http.StatusAccepted, code)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/publish/runs/"+started.Run.ID+"/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "event: initial")
	assert.Contains(t, string(body), "event: done")
	assert.Contains(t, string(body), pubdomain.RunSucceeded)
}

func TestPublish_Conflicts(t *testing.T) {
	r, _ := newTestRouter(t, false)
	c := &client{t: t, r: r}
	c.login()

	code, _ := c.do(http.MethodPost, "/api/v1/projects/missing/publish", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = c.do(http.MethodGet, "/api/v1/publish/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
