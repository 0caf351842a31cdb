package access

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/ownership"
)

// TokenVerifier checks a token string and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserResolver loads the live user record for a token subject.
type UserResolver interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Authenticate verifies the presented token and resolves its subject.
type Authenticate struct {
	Tokens TokenVerifier
	Users  UserResolver
}

func (Authenticate) Name() string { return "authenticate" }

func (a Authenticate) Apply(ctx context.Context, req Request) (Request, error) {
	token := req.Credentials.Cookie
	if token == "" {
		token = req.Credentials.Header
	}
	if token == "" {
		return req, &common.AuthenticationError{Reason: common.AuthMissing}
	}

	claims, err := a.Tokens.Verify(token)
	if err != nil {
		reason := common.AuthInvalid
		if errors.Is(err, common.ErrTokenExpired) {
			reason = common.AuthExpired
		}
		return req, &common.AuthenticationError{Reason: reason, Err: err}
	}

	user, err := a.Users.GetUser(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return req, &common.AuthenticationError{Reason: common.AuthInvalid, Err: err}
		}
		return req, err
	}

	req.Claims = claims
	req.User = user
	return req, nil
}

// AuthorizeAdmin admits administrators only.
type AuthorizeAdmin struct{}

func (AuthorizeAdmin) Name() string { return "authorize admin" }

func (AuthorizeAdmin) Apply(_ context.Context, req Request) (Request, error) {
	if req.User == nil {
		return req, &common.AuthenticationError{Reason: common.AuthMissing}
	}
	if !req.User.IsAdmin {
		return req, &common.AuthorizationError{Reason: common.DenyNotAdmin}
	}
	return req, nil
}

// AuthorizeOwnerOrAdmin admits the owner of a resource or an administrator.
// OwnerID must be resolved before the stage runs.
type AuthorizeOwnerOrAdmin struct {
	OwnerID string
}

func (AuthorizeOwnerOrAdmin) Name() string { return "authorize owner or admin" }

func (s AuthorizeOwnerOrAdmin) Apply(_ context.Context, req Request) (Request, error) {
	if req.User == nil {
		return req, &common.AuthenticationError{Reason: common.AuthMissing}
	}
	if ownership.CanAccess(req.User, s.OwnerID) {
		return req, nil
	}
	return req, &common.AuthorizationError{Reason: common.DenyNotOwner}
}
