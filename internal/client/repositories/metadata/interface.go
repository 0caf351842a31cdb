package metadata

import (
	"context"
)

// Repository stores small key/value settings of the CLI, such as the email
// of the last logged in account.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
