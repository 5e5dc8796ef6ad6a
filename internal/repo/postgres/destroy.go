package postgres

import "context"

// DestroyAll empties every table. Used by the seed CLI.
func DestroyAll(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, `TRUNCATE reviews, courses, bootcamps, users`)
	return err
}
