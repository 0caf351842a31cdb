package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/incidents"
	"github.com/dmitrijs2005/gophtodo/internal/server/notify"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

type fakeNotifier struct {
	mu  sync.Mutex
	got []notify.Message
}

func (f *fakeNotifier) Notify(_ context.Context, msg notify.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, msg)
}

func (f *fakeNotifier) kinds() []notify.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Kind, len(f.got))
	for i, m := range f.got {
		out[i] = m.Kind
	}
	return out
}

type fakeReporter struct {
	got []incidents.Incident
	err error
}

func (f *fakeReporter) Report(_ context.Context, inc incidents.Incident) error {
	f.got = append(f.got, inc)
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "k", TokenTTL: time.Hour, HashCost: bcrypt.MinCost}
}

type fixture struct {
	rm       repomanager.RepositoryManager
	users    *UserService
	todos    *TodoService
	notifier *fakeNotifier
	reporter *fakeReporter
}

func newFixture(t *testing.T, rm repomanager.RepositoryManager) *fixture {
	t.Helper()
	if rm == nil {
		rm = memory.NewStore()
	}
	n := &fakeNotifier{}
	r := &fakeReporter{}
	log := logging.NewDiscard()
	return &fixture{
		rm:       rm,
		users:    NewUserService(rm, testConfig(), n, r, log),
		todos:    NewTodoService(rm, n, log),
		notifier: n,
		reporter: r,
	}
}
