// Package memory provides an in-process RepositoryManager used when no
// database is configured and in tests.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/todos"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/users"
)

// Store keeps users and todos in maps guarded by one RWMutex. A transaction
// holds the write lock from start to finish, so other callers wait for it
// and a rollback restores only state the transaction itself saw.
type Store struct {
	mu     sync.RWMutex
	seq    int64
	users  map[string]*models.User
	emails map[string]string
	todos  map[string]*models.Todo
	order  map[string]int64
	now    func() time.Time
}

var _ repomanager.RepositoryManager = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:  map[string]*models.User{},
		emails: map[string]string{},
		todos:  map[string]*models.Todo{},
		order:  map[string]int64{},
		now:    time.Now,
	}
}

// RunMigrations is a no-op; the store has no schema.
func (s *Store) RunMigrations(context.Context) error { return nil }

// DB returns nil: memory repositories ignore the handle they are bound to.
func (s *Store) DB() dbx.DBTX { return nil }

func (s *Store) Users(db dbx.DBTX) users.Repository { return &userRepo{handle{s: s, inTx: isTx(db)}} }

func (s *Store) Todos(db dbx.DBTX) todos.Repository { return &todoRepo{handle{s: s, inTx: isTx(db)}} }

// txHandle is what WithTx passes to fn. Repositories bound to it run under
// the lock the transaction already holds. It is not a SQL connection.
type txHandle struct{}

var errNotSQL = errors.New("memory store: no SQL connection")

func (txHandle) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNotSQL
}

func (txHandle) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNotSQL
}

func (txHandle) QueryRowContext(context.Context, string, ...any) *sql.Row { return nil }

func isTx(db dbx.DBTX) bool {
	_, ok := db.(txHandle)
	return ok
}

// handle locks the store unless it is bound to a running transaction.
type handle struct {
	s    *Store
	inTx bool
}

func (h handle) lock() {
	if !h.inTx {
		h.s.mu.Lock()
	}
}

func (h handle) unlock() {
	if !h.inTx {
		h.s.mu.Unlock()
	}
}

func (h handle) rlock() {
	if !h.inTx {
		h.s.mu.RLock()
	}
}

func (h handle) runlock() {
	if !h.inTx {
		h.s.mu.RUnlock()
	}
}

type snapshot struct {
	users  map[string]*models.User
	emails map[string]string
	todos  map[string]*models.Todo
	order  map[string]int64
}

// snapshot and restore run with mu held by WithTx.
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		users:  make(map[string]*models.User, len(s.users)),
		emails: make(map[string]string, len(s.emails)),
		todos:  make(map[string]*models.Todo, len(s.todos)),
		order:  make(map[string]int64, len(s.order)),
	}
	for k, v := range s.users {
		u := *v
		snap.users[k] = &u
	}
	for k, v := range s.emails {
		snap.emails[k] = v
	}
	for k, v := range s.todos {
		t := *v
		snap.todos[k] = &t
	}
	for k, v := range s.order {
		snap.order[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.users, s.emails, s.todos, s.order = snap.users, snap.emails, snap.todos, snap.order
}

// WithTx runs fn with all-or-nothing semantics: on error or panic the store
// is restored to its state before fn ran. fn must reach the store only
// through repositories bound to tx; a repository bound to DB() blocks until
// the transaction ends.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(ctx, txHandle{})
}

// next returns a monotonically increasing insertion number. Callers hold mu.
func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func (s *Store) sorted(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return s.order[ids[i]] < s.order[ids[j]] })
}
