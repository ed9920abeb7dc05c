package google

import "context"

type Core interface {
	CompleteAuthorization(ctx context.Context, state, code string) error
}
