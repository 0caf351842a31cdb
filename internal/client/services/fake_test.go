package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	loggedIn bool

	user    *models.User
	authErr error

	list    []models.Todo
	listErr error

	todo    *models.Todo
	todoErr error

	pingErr   error
	deleteErr error
	closed    bool

	lastPassword  string
	lastTitle     *string
	lastCompleted *bool
	lastDeletedID string
	accountGone   bool
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { f.closed = true; return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	return f.Login(ctx, email, password)
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.User, error) {
	f.lastPassword = password
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.loggedIn = true
	if f.user != nil {
		return f.user, nil
	}
	return &models.User{ID: "u1", Email: email}, nil
}

func (f *fakeClient) Logout() { f.loggedIn = false }
func (f *fakeClient) LoggedIn() bool { return f.loggedIn }

func (f *fakeClient) ListTodos(context.Context) ([]models.Todo, error) {
	return f.list, f.listErr
}

func (f *fakeClient) CreateTodo(_ context.Context, title string) (*models.Todo, error) {
	f.lastTitle = &title
	return f.todo, f.todoErr
}

func (f *fakeClient) UpdateTodo(_ context.Context, id string, title *string, completed *bool) (*models.Todo, error) {
	f.lastTitle, f.lastCompleted = title, completed
	return f.todo, f.todoErr
}

func (f *fakeClient) DeleteTodo(_ context.Context, id string) error {
	f.lastDeletedID = id
	return f.todoErr
}

func (f *fakeClient) DeleteAccount(context.Context) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.accountGone = true
	f.loggedIn = false
	return nil
}

func setupRepos(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })
	return repos
}
