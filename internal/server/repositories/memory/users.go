package memory

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/google/uuid"
)

type userRepo struct {
	handle
}

func (r *userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	s := r.s
	r.lock()
	defer r.unlock()

	if _, taken := s.emails[user.Email]; taken {
		return nil, common.ErrAlreadyExists
	}

	user.ID = uuid.NewString()
	user.CreatedAt = s.now()

	stored := *user
	s.users[user.ID] = &stored
	s.emails[user.Email] = user.ID
	s.order[user.ID] = s.next()

	return user, nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.rlock()
	defer r.runlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.rlock()
	id, ok := r.s.emails[email]
	r.runlock()
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepo) List(_ context.Context) ([]*models.User, error) {
	r.rlock()
	defer r.runlock()

	ids := make([]string, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	r.s.sorted(ids)

	result := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u := *r.s.users[id]
		result = append(result, &u)
	}
	return result, nil
}

func (r *userRepo) Update(_ context.Context, user *models.User) (*models.User, error) {
	s := r.s
	r.lock()
	defer r.unlock()

	cur, ok := s.users[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if owner, taken := s.emails[user.Email]; taken && owner != user.ID {
		return nil, common.ErrAlreadyExists
	}

	delete(s.emails, cur.Email)
	cur.Email = user.Email
	cur.PasswordHash = user.PasswordHash
	s.emails[cur.Email] = cur.ID

	out := *cur
	return &out, nil
}

func (r *userRepo) SetAdmin(_ context.Context, id string, isAdmin bool) error {
	r.lock()
	defer r.unlock()

	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

// Delete mirrors the foreign key of the SQL schema: a user that still owns
// todos cannot be removed.
func (r *userRepo) Delete(_ context.Context, id string) error {
	s := r.s
	r.lock()
	defer r.unlock()

	u, ok := s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	for _, t := range s.todos {
		if t.CreatorID == id {
			return errForeignKey
		}
	}

	delete(s.emails, u.Email)
	delete(s.users, id)
	delete(s.order, id)
	return nil
}
