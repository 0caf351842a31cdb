package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/config"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
)

type fakeAuth struct {
	loggedIn bool
	user     *models.User
	err      error
	pingErr  error
	last     string

	lastPassword string
	deleted      bool
	closed       bool
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) (*models.User, error) {
	f.lastPassword = string(password)
	if f.err != nil {
		return nil, f.err
	}
	f.loggedIn = true
	if f.user != nil {
		return f.user, nil
	}
	return &models.User{ID: "u1", Email: email}, nil
}

func (f *fakeAuth) Register(ctx context.Context, email string, password []byte) (*models.User, error) {
	return f.Login(ctx, email, password)
}

func (f *fakeAuth) Logout(context.Context) error {
	f.loggedIn = false
	return f.err
}

func (f *fakeAuth) DeleteAccount(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = true
	f.loggedIn = false
	return nil
}

func (f *fakeAuth) LoggedIn() bool { return f.loggedIn }

func (f *fakeAuth) LastEmail(context.Context) (string, error) {
	if f.last == "" {
		return "", errNoEmail
	}
	return f.last, nil
}

func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error { f.closed = true; return nil }

type fakeTodos struct {
	list   []models.Todo
	cached bool
	todo   *models.Todo
	err    error

	lastID        string
	lastTitle     string
	lastCompleted *bool
}

func (f *fakeTodos) List(context.Context) ([]models.Todo, bool, error) {
	return f.list, f.cached, f.err
}

func (f *fakeTodos) Add(_ context.Context, title string) (*models.Todo, error) {
	f.lastTitle = title
	return f.result()
}

func (f *fakeTodos) SetCompleted(_ context.Context, id string, completed bool) (*models.Todo, error) {
	f.lastID, f.lastCompleted = id, &completed
	return f.result()
}

func (f *fakeTodos) Rename(_ context.Context, id, title string) (*models.Todo, error) {
	f.lastID, f.lastTitle = id, title
	return f.result()
}

func (f *fakeTodos) Delete(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeTodos) result() (*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.todo != nil {
		return f.todo, nil
	}
	return &models.Todo{ID: "t1", Title: f.lastTitle}, nil
}

var errNoEmail = errors.New("no email")

func newTestApp(t *testing.T, input string, as *fakeAuth, ts *fakeTodos) (*App, *bytes.Buffer) {
	t.Helper()
	origPw := getPassword
	getPassword = func(io.Writer) ([]byte, error) {
		return []byte("secret"), nil
	}
	t.Cleanup(func() { getPassword = origPw })

	var out bytes.Buffer
	cfg := &config.Config{OnlineCheckInterval: time.Hour}
	return newApp(cfg, as, ts, strings.NewReader(input), &out), &out
}
