package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/review"
	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

const reviewsJoined = `
	SELECT r.id, r.bootcamp_id, r.user_id, r.title, r.text, r.rating, r.created_at,
		b.name AS bootcamp_name, b.description AS bootcamp_description
	FROM reviews r
	JOIN bootcamps b ON b.id = r.bootcamp_id`

var reviewSort = map[string]string{
	"title":     "title",
	"rating":    "rating",
	"createdAt": "created_at",
}

type ReviewsRepo struct {
	store
}

func NewReviewsRepo(db DBTX, obs Observer) *ReviewsRepo {
	return &ReviewsRepo{store{db: db, obs: obs}}
}

func scanReview(row pgx.Row, extra ...any) (review.Review, error) {
	var rv review.Review
	var summary bootcamp.Summary

	dest := []any{
		&rv.ID, &rv.BootcampID, &rv.UserID, &rv.Title, &rv.Text, &rv.Rating, &rv.CreatedAt,
		&summary.Name, &summary.Description,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return review.Review{}, err
	}

	summary.ID = rv.BootcampID
	rv.Bootcamp = &summary
	return rv, nil
}

func (r *ReviewsRepo) Create(ctx context.Context, rv review.Review) (review.Review, error) {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now().UTC()
	}

	err := r.observe("reviews.create", func() error {
		_, err := r.conn(ctx).Exec(ctx,
			`INSERT INTO reviews (id, bootcamp_id, user_id, title, text, rating, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rv.ID, rv.BootcampID, rv.UserID, rv.Title, rv.Text, rv.Rating, rv.CreatedAt,
		)
		return err
	})
	if err != nil {
		return review.Review{}, err
	}
	return rv, nil
}

func (r *ReviewsRepo) GetByID(ctx context.Context, id string) (review.Review, error) {
	var rv review.Review
	err := r.observe("reviews.get_by_id", func() error {
		var err error
		rv, err = scanReview(r.conn(ctx).QueryRow(ctx, reviewsJoined+` WHERE r.id = $1`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return review.ErrNotFound
		}
		return err
	})
	return rv, err
}

func (r *ReviewsRepo) List(ctx context.Context, f review.ListFilter) ([]review.Review, int, error) {
	var w whereBuilder
	if f.BootcampID != nil {
		w.add("bootcamp_id = ?", *f.BootcampID)
	}

	query := `SELECT *, COUNT(*) OVER() AS total FROM (` + reviewsJoined + `) v` + w.sql() +
		orderBy(f.Sort, reviewSort, []utils.SortField{{Column: "created_at", Desc: true}}) +
		w.page(f.Limit, f.Offset)

	out := make([]review.Review, 0, f.Limit)
	total := 0

	err := r.observe("reviews.list", func() error {
		rows, err := r.conn(ctx).Query(ctx, query, w.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			rv, err := scanReview(rows, &total)
			if err != nil {
				return err
			}
			out = append(out, rv)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *ReviewsRepo) Update(ctx context.Context, rv review.Review, ownerID string) (review.Review, error) {
	err := r.observe("reviews.update", func() error {
		tag, err := r.conn(ctx).Exec(ctx,
			`UPDATE reviews SET title = $2, text = $3, rating = $4
			WHERE id = $1 AND ($5::uuid IS NULL OR user_id = $5::uuid)`,
			rv.ID, rv.Title, rv.Text, rv.Rating, ownerArg(ownerID),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return review.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return review.Review{}, err
	}

	return r.GetByID(ctx, rv.ID)
}

func (r *ReviewsRepo) Delete(ctx context.Context, id, ownerID string) error {
	return r.observe("reviews.delete", func() error {
		tag, err := r.conn(ctx).Exec(ctx,
			`DELETE FROM reviews WHERE id = $1 AND ($2::uuid IS NULL OR user_id = $2::uuid)`,
			id, ownerArg(ownerID),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return review.ErrNotFound
		}
		return nil
	})
}

func (r *ReviewsRepo) DeleteByBootcamp(ctx context.Context, bootcampID string) (int, error) {
	var n int64
	err := r.observe("reviews.delete_by_bootcamp", func() error {
		tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM reviews WHERE bootcamp_id = $1`, bootcampID)
		n = tag.RowsAffected()
		return err
	})
	return int(n), err
}
