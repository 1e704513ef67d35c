package profiles

import "context"

type Repo interface {
	// Upsert inserts the profile or overwrites every field of the existing row in place.
	Upsert(ctx context.Context, profile Profile) (Profile, error)
	GetByID(ctx context.Context, userID int64) (Profile, error)
	GetMany(ctx context.Context, userIDs []int64) (map[int64]Profile, error)
	List(ctx context.Context, search string) ([]Profile, error)
	Count(ctx context.Context) (int, error)
}
