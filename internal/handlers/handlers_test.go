package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/mail"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	handlers Handlers
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	authz := policy.NewAuthorizer(projectRepo)

	renderer, err := mail.NewRenderer()
	require.NoError(t, err)

	h := Handlers{
		Auth:    NewAuthHandler(services.NewAuthService(userRepo, true)),
		User:    NewUserHandler(services.NewUserService(userRepo)),
		Project: NewProjectHandler(services.NewProjectService(projectRepo, userRepo, authz)),
		Team:    NewTeamHandler(services.NewTeamService(projectRepo, userRepo, invitationRepo, authz, renderer, "http://localhost:3000")),
		Task:    NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, tagRepo, authz, nil)),
		Tag:     NewTagHandler(services.NewTagService(tagRepo, projectRepo)),
		Health:  NewHealthHandler(db),
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, h)

	return testEnv{db: db, router: r, handlers: h}
}

// do sends a JSON request through the router, replaying cookies from an
// earlier response when given.
func (env testEnv) do(t *testing.T, method, path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// login returns the session cookies for a user created with testutil.
func (env testEnv) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
