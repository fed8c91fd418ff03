package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"forum_api/internal/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest) (bool, error) {
	args := m.Called(ctx, username, req)
	return args.Bool(0), args.Error(1)
}

type mockQuestionRepo struct{ mock.Mock }

func (m *mockQuestionRepo) Create(ctx context.Context, q *model.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockQuestionRepo) FindAll(ctx context.Context) ([]model.Question, error) {
	args := m.Called(ctx)
	qs, _ := args.Get(0).([]model.Question)
	return qs, args.Error(1)
}

func (m *mockQuestionRepo) FindByID(ctx context.Context, id string) (*model.Question, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*model.Question)
	return q, args.Error(1)
}

func (m *mockQuestionRepo) Update(ctx context.Context, id, title, description string) error {
	return m.Called(ctx, id, title, description).Error(0)
}

func (m *mockQuestionRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockAnswerRepo struct{ mock.Mock }

func (m *mockAnswerRepo) Create(ctx context.Context, a *model.Answer) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAnswerRepo) FindByID(ctx context.Context, id string) (*model.Answer, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Answer)
	return a, args.Error(1)
}

func (m *mockAnswerRepo) FindByQuestion(ctx context.Context, questionID string) ([]model.Answer, error) {
	args := m.Called(ctx, questionID)
	as, _ := args.Get(0).([]model.Answer)
	return as, args.Error(1)
}

func (m *mockAnswerRepo) FindByUser(ctx context.Context, username string) ([]model.Answer, error) {
	args := m.Called(ctx, username)
	as, _ := args.Get(0).([]model.Answer)
	return as, args.Error(1)
}

func (m *mockAnswerRepo) UpdateContent(ctx context.Context, id, content string) error {
	return m.Called(ctx, id, content).Error(0)
}

func (m *mockAnswerRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockReactionRepo struct{ mock.Mock }

func (m *mockReactionRepo) Apply(ctx context.Context, username, answerID string, action model.ReactionAction) (*model.ReactionResult, error) {
	args := m.Called(ctx, username, answerID, action)
	r, _ := args.Get(0).(*model.ReactionResult)
	return r, args.Error(1)
}

type mockFileStore struct{ mock.Mock }

func (m *mockFileStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, r, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockFileStore) Delete(ctx context.Context, location string) error {
	return m.Called(ctx, location).Error(0)
}

// fileHeader builds a multipart file header the way gin hands it to handlers
func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}
