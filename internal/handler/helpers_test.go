package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"forum_api/internal/logging"
	"forum_api/internal/model"
	"forum_api/internal/ratelimit"
	"forum_api/internal/repository"
	"forum_api/internal/service"
	"forum_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const strongPassword = "violet-Harbor-trumpet-42"

// memUserRepo is an in-memory repository.UserRepository
type memUserRepo struct {
	mu     sync.Mutex
	users  []*model.User
	nextID int
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *memUserRepo) find(match func(*model.User) bool) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			found := *u
			return &found
		}
	}
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email }), nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username }), nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, username string, req model.UpdateProfileRequest) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username != username {
			continue
		}
		u.FirstName, u.LastName, u.Email = req.FirstName, req.LastName, req.Email
		u.PhoneNumber, u.Address, u.Gender = req.Phone, req.Address, req.Gender
		if req.ProfilePicture != nil {
			u.ProfilePicture = req.ProfilePicture
		}
		return true, nil
	}
	return false, nil
}

type mockQuestionService struct{ mock.Mock }

func (m *mockQuestionService) CreateQuestion(ctx context.Context, username string, req model.QuestionRequest) (*model.Question, error) {
	args := m.Called(ctx, username, req)
	q, _ := args.Get(0).(*model.Question)
	return q, args.Error(1)
}

func (m *mockQuestionService) GetAllQuestions(ctx context.Context) ([]model.Question, error) {
	args := m.Called(ctx)
	qs, _ := args.Get(0).([]model.Question)
	return qs, args.Error(1)
}

func (m *mockQuestionService) GetQuestionByID(ctx context.Context, questionID string) (*model.Question, error) {
	args := m.Called(ctx, questionID)
	q, _ := args.Get(0).(*model.Question)
	return q, args.Error(1)
}

func (m *mockQuestionService) UpdateQuestion(ctx context.Context, questionID, username string, req model.QuestionRequest) error {
	return m.Called(ctx, questionID, username, req).Error(0)
}

func (m *mockQuestionService) DeleteQuestion(ctx context.Context, questionID, username string) error {
	return m.Called(ctx, questionID, username).Error(0)
}

type mockAnswerService struct{ mock.Mock }

func (m *mockAnswerService) CreateAnswer(ctx context.Context, username string, req model.CreateAnswerRequest, attachment *multipart.FileHeader) (*model.Answer, error) {
	args := m.Called(ctx, username, req, attachment)
	a, _ := args.Get(0).(*model.Answer)
	return a, args.Error(1)
}

func (m *mockAnswerService) GetQuestionAnswers(ctx context.Context, questionID string) ([]model.Answer, error) {
	args := m.Called(ctx, questionID)
	as, _ := args.Get(0).([]model.Answer)
	return as, args.Error(1)
}

func (m *mockAnswerService) GetUserAnswers(ctx context.Context, username string) ([]model.Answer, error) {
	args := m.Called(ctx, username)
	as, _ := args.Get(0).([]model.Answer)
	return as, args.Error(1)
}

func (m *mockAnswerService) UpdateAnswer(ctx context.Context, answerID, username, content string) error {
	return m.Called(ctx, answerID, username, content).Error(0)
}

func (m *mockAnswerService) DeleteAnswer(ctx context.Context, answerID, username string) error {
	return m.Called(ctx, answerID, username).Error(0)
}

type mockReactionService struct{ mock.Mock }

func (m *mockReactionService) React(ctx context.Context, username, answerID string, action model.ReactionAction) (*model.ReactionResult, error) {
	args := m.Called(ctx, username, answerID, action)
	r, _ := args.Get(0).(*model.ReactionResult)
	return r, args.Error(1)
}

type testApp struct {
	router    *gin.Engine
	users     *memUserRepo
	questions *mockQuestionService
	answers   *mockAnswerService
	reactions *mockReactionService
	jwt       *utils.JWTUtil
	health    error
}

func newTestApp(t *testing.T, loginMax int, trustedProxies ...string) *testApp {
	t.Helper()
	logger := logging.Discard()
	app := &testApp{
		users:     &memUserRepo{},
		questions: &mockQuestionService{},
		answers:   &mockAnswerService{},
		reactions: &mockReactionService{},
		jwt:       utils.NewJWTUtil("handler-test-secret", 24),
	}

	store := ratelimit.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	app.router = NewRouter(RouterDeps{
		Users:          NewUserHandler(service.NewAuthService(app.users, app.jwt, logger), service.NewProfileService(app.users), logger),
		Questions:      NewQuestionHandler(app.questions, logger),
		Answers:        NewAnswerHandler(app.answers, app.reactions, logger),
		JWT:            app.jwt,
		LoginLimiter:   ratelimit.New(store, loginMax, time.Minute),
		Logger:         logger,
		TrustedProxies: trustedProxies,
		Health:         func(context.Context) error { return app.health },
	})
	return app
}

func (a *testApp) token(t *testing.T, id int, username string) string {
	t.Helper()
	token, err := a.jwt.GenerateToken(id, username)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, token)
}

func (a *testApp) doMultipart(t *testing.T, path string, fields map[string]string, fileField, fileName string, content []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.send(req, token)
}

func (a *testApp) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func registerBody(username, email string) map[string]string {
	return map[string]string{
		"firstName": "Alice",
		"lastName":  "Liddell",
		"username":  username,
		"email":     email,
		"password":  strongPassword,
	}
}
