package admin

import "context"

type Repo interface {
	Create(ctx context.Context, admin Admin) (Admin, error)
	GetByUsername(ctx context.Context, username string) (Admin, error)
	Count(ctx context.Context) (int, error)
}
