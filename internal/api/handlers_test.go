package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/api"
	"github.com/phrazzld/task-manager-api/internal/api/middleware"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/mocks"
	"github.com/phrazzld/task-manager-api/internal/platform/avatar"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	handler http.Handler
	mem     *mocks.Memory
	tasks   *mocks.MockTaskStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	mem := mocks.NewMemory()
	tasks := mocks.NewMockTaskStore(mem)

	users, err := service.NewUserService(service.UserServiceDeps{
		Users:      mocks.NewMockUserStore(mem),
		Tasks:      tasks,
		Transactor: mocks.NewMockTransactor(mem),
		Tokens:     &mocks.MockJWTService{},
		Hasher:     &mocks.MockPasswordHasher{},
		Avatars:    avatar.NewProcessor(),
	})
	require.NoError(t, err)
	taskSvc, err := service.NewTaskService(tasks, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	api.RegisterRoutes(r,
		api.NewUserHandler(users, nil),
		api.NewTaskHandler(taskSvc, nil),
		middleware.NewAuthMiddleware(users).Authenticate)

	return &testAPI{handler: r, mem: mem, tasks: tasks}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) signup(t *testing.T, email string) (string, uuid.UUID) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/users", "", map[string]any{
		"name":     "Ann",
		"email":    email,
		"password": "secret123",
		"age":      30,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["error"].(string)
}

func TestSignupResponseIsRedacted(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/users", "", map[string]any{
		"name":     "Ann",
		"email":    "ann@example.com",
		"password": "secret123",
		"age":      30,
		"tokens":   []string{"forged"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode[map[string]json.RawMessage](t, rec)
	assert.JSONEq(t, `"user signed up successfully"`, string(body["message"]))
	assert.NotEmpty(t, body["token"])

	var user map[string]any
	require.NoError(t, json.Unmarshal(body["user"], &user))
	keys := make([]string, 0, len(user))
	for k := range user {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "name", "email", "age", "createdAt", "updatedAt"}, keys)
	assert.NotContains(t, rec.Body.String(), "secret123")
}

func TestSignupRejections(t *testing.T) {
	a := newTestAPI(t)
	a.signup(t, "ann@example.com")

	tests := []struct {
		name string
		body any
	}{
		{"invalid json", `{"name":`},
		{"missing name", map[string]any{"email": "x@example.com", "password": "secret123"}},
		{"bad email", map[string]any{"name": "X", "email": "nope", "password": "secret123"}},
		{"short password", map[string]any{"name": "X", "email": "x@example.com", "password": "abc"}},
		{"password word", map[string]any{"name": "X", "email": "x@example.com", "password": "MyPassWord9"}},
		{"negative age", map[string]any{"name": "X", "email": "x@example.com", "password": "secret123", "age": -2}},
		{"duplicate email", map[string]any{"name": "X", "email": "ANN@example.com", "password": "secret123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/users", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, 1, a.mem.UserCount())
}

func TestLoginFailuresAreIdentical(t *testing.T) {
	a := newTestAPI(t)
	a.signup(t, "ann@example.com")

	unknown := a.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	wrong := a.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email": "ann@example.com", "password": "not-it-at-all",
	})

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, errorMessage(t, unknown), errorMessage(t, wrong))

	ok := a.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email": "ann@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, ok.Code)
	assert.NotEmpty(t, decode[api.AuthResponse](t, ok).Token)
}

func TestLogoutRevokesOnlyThatToken(t *testing.T) {
	a := newTestAPI(t)
	first, _ := a.signup(t, "ann@example.com")
	login := a.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email": "ann@example.com", "password": "secret123",
	})
	second := decode[api.AuthResponse](t, login).Token

	rec := a.do(t, http.MethodPost, "/users/logout", first, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/users/me", first, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/users/me", second, nil).Code)

	rec = a.do(t, http.MethodPost, "/users/logoutAll", second, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/users/me", second, nil).Code)
}

func TestUnauthenticatedRoutes(t *testing.T) {
	a := newTestAPI(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodPatch, "/users/me"},
		{http.MethodDelete, "/users/me"},
		{http.MethodPost, "/users/logout"},
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/tasks/" + uuid.NewString()},
	} {
		rec := a.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
		assert.Equal(t, service.ErrUnauthenticated.Error(), errorMessage(t, rec))
	}
}

func TestUpdateMe(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.signup(t, "ann@example.com")

	rec := a.do(t, http.MethodPatch, "/users/me", token, map[string]any{"name": "Mallory", "tokens": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	me := decode[domain.PublicUser](t, a.do(t, http.MethodGet, "/users/me", token, nil))
	assert.Equal(t, "Ann", me.Name)

	rec = a.do(t, http.MethodPatch, "/users/me", token, map[string]any{"name": "Annie", "age": 31})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[api.UserResponse](t, rec)
	assert.Equal(t, "Annie", resp.User.Name)
	assert.Equal(t, 31, resp.User.Age)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/users/me", token, nil).Code, "session survives update")
}

func TestDeleteMeCascadesTasks(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.signup(t, "ann@example.com")
	other, _ := a.signup(t, "bob@example.com")
	for _, desc := range []string{"one", "two", "three"} {
		require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/tasks", token, map[string]any{"description": desc}).Code)
	}
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/tasks", other, map[string]any{"description": "bob's"}).Code)

	rec := a.do(t, http.MethodDelete, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, a.mem.TaskCount())
	assert.Equal(t, 1, a.mem.UserCount())
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/users/me", token, nil).Code)
}

func TestCreateTaskIgnoresOwnerField(t *testing.T) {
	a := newTestAPI(t)
	token, userID := a.signup(t, "ann@example.com")

	rec := a.do(t, http.MethodPost, "/tasks", token, map[string]any{
		"description": "buy milk",
		"owner":       uuid.NewString(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[api.TaskResponse](t, rec)
	assert.Equal(t, userID, resp.Task.OwnerID)
	assert.False(t, resp.Task.Completed)

	rec = a.do(t, http.MethodPost, "/tasks", token, map[string]any{"completed": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForeignTaskLooksMissing(t *testing.T) {
	a := newTestAPI(t)
	ann, _ := a.signup(t, "ann@example.com")
	bob, _ := a.signup(t, "bob@example.com")

	created := decode[api.TaskResponse](t, a.do(t, http.MethodPost, "/tasks", ann, map[string]any{"description": "mine"}))
	foreign := "/tasks/" + created.Task.ID.String()
	missing := "/tasks/" + uuid.NewString()

	for _, tc := range []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPatch, map[string]any{"completed": true}},
		{http.MethodDelete, nil},
	} {
		f := a.do(t, tc.method, foreign, bob, tc.body)
		m := a.do(t, tc.method, missing, bob, tc.body)
		assert.Equal(t, http.StatusNotFound, f.Code, tc.method)
		assert.Equal(t, m.Code, f.Code, tc.method)
		assert.Equal(t, errorMessage(t, m), errorMessage(t, f), tc.method)
	}

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/tasks/not-a-uuid", ann, nil).Code)

	got := decode[api.TaskResponse](t, a.do(t, http.MethodGet, foreign, ann, nil))
	assert.False(t, got.Task.Completed, "bob's patch must not land")
}

func TestUpdateTaskDisallowedKey(t *testing.T) {
	a := newTestAPI(t)
	token, userID := a.signup(t, "ann@example.com")
	created := decode[api.TaskResponse](t, a.do(t, http.MethodPost, "/tasks", token, map[string]any{"description": "mine"}))
	path := "/tasks/" + created.Task.ID.String()

	rec := a.do(t, http.MethodPatch, path, token, map[string]any{"description": "x", "owner": "evil"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	got := decode[api.TaskResponse](t, a.do(t, http.MethodGet, path, token, nil))
	assert.Equal(t, "mine", got.Task.Description)
	assert.Equal(t, userID, got.Task.OwnerID)

	rec = a.do(t, http.MethodPatch, path, token, map[string]any{"description": "done it", "completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[api.TaskResponse](t, rec)
	assert.Equal(t, "done it", updated.Task.Description)
	assert.True(t, updated.Task.Completed)
}

func TestListTasksPagination(t *testing.T) {
	a := newTestAPI(t)
	token, userID := a.signup(t, "ann@example.com")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, desc := range []string{"t1", "t2", "t3", "t4", "t5"} {
		at := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, a.tasks.Create(context.Background(), &domain.Task{
			ID:          uuid.New(),
			Description: desc,
			Completed:   i%2 == 0,
			OwnerID:     userID,
			CreatedAt:   at,
			UpdatedAt:   at,
		}))
	}

	list := func(query string) []string {
		rec := a.do(t, http.MethodGet, "/tasks?"+query, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[api.TaskListResponse](t, rec)
		out := make([]string, 0, len(resp.Tasks))
		for _, task := range resp.Tasks {
			out = append(out, task.Description)
		}
		assert.Equal(t, len(out), resp.Count)
		return out
	}

	assert.Equal(t, []string{"t3", "t2"}, list("limit=2&skip=2&sortBy=createdAt:desc"))
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5"}, list(""))
	assert.Equal(t, []string{"t1", "t3", "t5"}, list("completed=true"))
	assert.Equal(t, []string{"t2", "t4"}, list("completed=false"))
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5"}, list("limit=abc&skip=xyz"))

	other, _ := a.signup(t, "bob@example.com")
	rec := a.do(t, http.MethodGet, "/tasks", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decode[map[string]json.RawMessage](t, rec)["tasks"]))
}

func pngFile(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: uint8(y), B: uint8(x), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (a *testAPI) upload(t *testing.T, token, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestAvatarLifecycle(t *testing.T) {
	a := newTestAPI(t)
	token, userID := a.signup(t, "ann@example.com")
	avatarPath := "/users/" + userID.String() + "/avatar"

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, avatarPath, "", nil).Code)

	rec := a.upload(t, token, "me.gif", pngFile(t, 8, 8))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, avatar.ErrUnsupportedType.Error(), errorMessage(t, rec))

	rec = a.upload(t, token, "me.PNG", pngFile(t, 8, 8))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "extension check is case-sensitive")

	rec = a.upload(t, token, "me.png", []byte("definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.upload(t, token, "me.png", pngFile(t, 300, 120))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, avatarPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 250, img.Bounds().Dx())
	assert.Equal(t, 250, img.Bounds().Dy())

	me := a.do(t, http.MethodGet, "/users/me", token, nil)
	assert.NotContains(t, me.Body.String(), "avatar")

	require.Equal(t, http.StatusOK, a.do(t, http.MethodDelete, "/users/me/avatar", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, avatarPath, "", nil).Code)
}

func TestAvatarUploadLimits(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.signup(t, "ann@example.com")

	rec := a.upload(t, token, "big.png", bytes.Repeat([]byte{0x89}, avatar.MaxBytes+1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, avatar.ErrTooLarge.Error(), errorMessage(t, rec))

	req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvatarBadID(t *testing.T) {
	a := newTestAPI(t)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/users/nope/avatar", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/users/"+uuid.NewString()+"/avatar", "", nil).Code)
}
