package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/server/notify"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	u, err := f.users.Register(ctx, "  A@Test.com ", "Pass1234!")
	require.NoError(t, err)
	assert.Equal(t, "a@test.com", u.Email)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "Pass1234!", u.PasswordHash)
	assert.True(t, f.users.hasher.Verify("Pass1234!", u.PasswordHash))
	assert.Equal(t, []notify.Kind{notify.Welcome}, f.notifier.kinds())
}

func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	orig, err := f.users.Register(ctx, "a@test.com", "Pass1234!")
	require.NoError(t, err)

	_, err = f.users.Register(ctx, "A@TEST.COM", "Other5678?")
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	same, err := f.users.GetUser(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, orig.PasswordHash, same.PasswordHash, "original record must be unchanged")
	assert.Len(t, f.notifier.kinds(), 1, "no welcome for a rejected registration")
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name, email, password, field string
	}{
		{"bad email", "not-an-email", "Pass1234!", "email"},
		{"empty email", "   ", "Pass1234!", "email"},
		{"weak password", "a@test.com", "password", "password"},
		{"short password", "a@test.com", "Pa1!", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), tt.email, tt.password)
			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	list, err := f.users.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "nothing may be written on validation failure")
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	u, err := f.users.Register(ctx, "a@test.com", "Pass1234!")
	require.NoError(t, err)

	got, err := f.users.Authenticate(ctx, " A@test.com", "Pass1234!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.users.Authenticate(ctx, "a@test.com", "Wrong1234!")
	var ae *common.AuthenticationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, common.AuthInvalid, ae.Reason)

	_, err = f.users.Authenticate(ctx, "ghost@test.com", "Pass1234!")
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, common.AuthInvalid, ae.Reason)
}

func TestGetUser_MalformedIDIsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.users.GetUser(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateCredentials(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a, err := f.users.Register(ctx, "a@test.com", "Pass1234!")
	require.NoError(t, err)
	_, err = f.users.Register(ctx, "b@test.com", "Pass1234!")
	require.NoError(t, err)

	t.Run("no changes keeps hash", func(t *testing.T) {
		u, err := f.users.UpdateCredentials(ctx, a.ID, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, a.PasswordHash, u.PasswordHash)
	})

	t.Run("email only keeps hash", func(t *testing.T) {
		email := " A2@test.com"
		u, err := f.users.UpdateCredentials(ctx, a.ID, &email, nil)
		require.NoError(t, err)
		assert.Equal(t, "a2@test.com", u.Email)
		assert.Equal(t, a.PasswordHash, u.PasswordHash)
	})

	t.Run("own email is not a duplicate", func(t *testing.T) {
		email := "a2@test.com"
		_, err := f.users.UpdateCredentials(ctx, a.ID, &email, nil)
		require.NoError(t, err)
	})

	t.Run("taken email", func(t *testing.T) {
		email := "b@test.com"
		_, err := f.users.UpdateCredentials(ctx, a.ID, &email, nil)
		require.ErrorIs(t, err, common.ErrAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		pw := "weak"
		_, err := f.users.UpdateCredentials(ctx, a.ID, nil, &pw)
		require.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("password rehashed", func(t *testing.T) {
		pw := "NewPass99#"
		u, err := f.users.UpdateCredentials(ctx, a.ID, nil, &pw)
		require.NoError(t, err)
		assert.NotEqual(t, a.PasswordHash, u.PasswordHash)

		_, err = f.users.Authenticate(ctx, "a2@test.com", "NewPass99#")
		require.NoError(t, err)
		_, err = f.users.Authenticate(ctx, "a2@test.com", "Pass1234!")
		require.ErrorIs(t, err, common.ErrorUnauthenticated)
	})

	t.Run("missing user", func(t *testing.T) {
		email := "c@test.com"
		_, err := f.users.UpdateCredentials(ctx, "00000000-0000-0000-0000-000000000000", &email, nil)
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	u, err := f.users.EnsureAdmin(ctx, "root@test.com", "Root1234!")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	again, err := f.users.EnsureAdmin(ctx, "root@test.com", "ignored")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	stored, err := f.users.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)

	_, err = f.users.EnsureAdmin(ctx, "bad", "Root1234!")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestDeleteUser_CascadesTodos(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a, err := f.users.Register(ctx, "a@test.com", "Pass1234!")
	require.NoError(t, err)
	b, err := f.users.Register(ctx, "b@test.com", "Pass1234!")
	require.NoError(t, err)

	_, err = f.todos.Create(ctx, a, "Buy milk")
	require.NoError(t, err)
	_, err = f.todos.Create(ctx, a, "Walk dog")
	require.NoError(t, err)
	keep, err := f.todos.Create(ctx, b, "Call mom")
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(ctx, a.ID))

	_, err = f.users.GetUser(ctx, a.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	left, err := f.rm.Todos(f.rm.DB()).List(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	_, err = f.todos.Get(ctx, b, keep.ID)
	require.NoError(t, err, "other users' todos survive")

	assert.Equal(t, notify.Cancellation, f.notifier.kinds()[len(f.notifier.kinds())-1])

	require.ErrorIs(t, f.users.DeleteUser(ctx, a.ID), common.ErrorNotFound)
}

type commitFailingStore struct {
	*memory.Store
}

func (s commitFailingStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if err := s.Store.WithTx(ctx, fn); err != nil {
		return err
	}
	return fmt.Errorf("%w: connection reset", dbx.ErrCommitFailed)
}

type rollbackStore struct {
	*memory.Store
	err error
}

func (s rollbackStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return s.Store.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return s.err
	})
}

func TestDeleteUser_CommitFailureIsPartialAndReported(t *testing.T) {
	f := newFixture(t, commitFailingStore{memory.NewStore()})
	ctx := context.Background()

	a, err := f.users.Register(ctx, "a@test.com", "Pass1234!")
	require.NoError(t, err)

	err = f.users.DeleteUser(ctx, a.ID)
	require.ErrorIs(t, err, common.ErrPersistence)
	assert.True(t, common.IsPartial(err))

	require.Len(t, f.reporter.got, 1)
	assert.Equal(t, a.ID, f.reporter.got[0].UserID)
	assert.Equal(t, "delete user", f.reporter.got[0].Op)
	assert.NotContains(t, f.notifier.kinds(), notify.Cancellation)
}

func TestDeleteUser_IncidentReportFailureStillReturnsPartial(t *testing.T) {
	f := newFixture(t, commitFailingStore{memory.NewStore()})
	f.reporter.err = errors.New("bucket gone")
	ctx := context.Background()

	a, err := f.users.Register(ctx, "a@test.com", "Pass1234!")
	require.NoError(t, err)

	err = f.users.DeleteUser(ctx, a.ID)
	assert.True(t, common.IsPartial(err))
}

func TestDeleteUser_FailureRollsBackBoth(t *testing.T) {
	store := memory.NewStore()
	f := newFixture(t, rollbackStore{Store: store, err: errors.New("disk full")})
	ctx := context.Background()

	a, err := f.users.Register(ctx, "a@test.com", "Pass1234!")
	require.NoError(t, err)
	_, err = f.todos.Create(ctx, a, "Buy milk")
	require.NoError(t, err)

	err = f.users.DeleteUser(ctx, a.ID)
	require.ErrorIs(t, err, common.ErrPersistence)
	assert.False(t, common.IsPartial(err))
	assert.Empty(t, f.reporter.got)

	_, err = f.users.GetUser(ctx, a.ID)
	require.NoError(t, err, "user must survive a failed cascade")
	left, err := store.Todos(nil).List(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1, "todos must survive a failed cascade")
}

func TestDeleteUser_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	require.NoError(t, err)

	const id = "3b241101-e2bb-4255-8caf-4136c566a962"
	userRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "email", "password_hash", "is_admin", "created_at"}).
			AddRow(id, "a@test.com", "h", false, time.Now())
	}

	t.Run("commit", func(t *testing.T) {
		f := newFixture(t, rm)

		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).WithArgs(id).WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE creator_id = $1`)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, f.users.DeleteUser(context.Background(), id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user delete fails, rollback", func(t *testing.T) {
		f := newFixture(t, rm)

		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).WithArgs(id).WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE creator_id = $1`)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).WithArgs(id).WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		err := f.users.DeleteUser(context.Background(), id)
		require.ErrorIs(t, err, common.ErrPersistence)
		assert.False(t, common.IsPartial(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit fails", func(t *testing.T) {
		f := newFixture(t, rm)

		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).WithArgs(id).WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE creator_id = $1`)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(sql.ErrConnDone)

		err := f.users.DeleteUser(context.Background(), id)
		assert.True(t, common.IsPartial(err))
		require.Len(t, f.reporter.got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
