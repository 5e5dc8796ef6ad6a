package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

// bootcampsView derives the review and course aggregates alongside each row.
// averageCost is rounded up to the next multiple of ten.
const bootcampsView = `
	SELECT b.*,
		(SELECT AVG(r.rating)::float8 FROM reviews r WHERE r.bootcamp_id = b.id) AS average_rating,
		(SELECT (CEIL(AVG(c.tuition) / 10) * 10)::float8 FROM courses c WHERE c.bootcamp_id = b.id) AS average_cost
	FROM bootcamps b`

const bootcampColumns = `id, user_id, name, slug, description, website, phone, email,
	location_type, longitude, latitude, formatted_address, street, city, state, zipcode, country,
	careers, photo, housing, job_assistance, job_guarantee, accept_gi, created_at,
	average_rating, average_cost`

// distanceMiles is the haversine great-circle distance from ($1 lat, $2 lng).
const distanceMiles = `3963 * 2 * ASIN(SQRT(
	POWER(SIN(RADIANS(latitude - $1) / 2), 2) +
	COS(RADIANS($1)) * COS(RADIANS(latitude)) * POWER(SIN(RADIANS(longitude - $2) / 2), 2)))`

var bootcampSort = map[string]string{
	"name":          "name",
	"createdAt":     "created_at",
	"averageCost":   "average_cost",
	"averageRating": "average_rating",
}

type BootcampsRepo struct {
	store
}

func NewBootcampsRepo(db DBTX, obs Observer) *BootcampsRepo {
	return &BootcampsRepo{store{db: db, obs: obs}}
}

func bootcampDest(b *bootcamp.Bootcamp) []any {
	return []any{
		&b.ID, &b.UserID, &b.Name, &b.Slug, &b.Description, &b.Website, &b.Phone, &b.Email,
		&b.Location.Type, &b.Location.Coordinates[0], &b.Location.Coordinates[1],
		&b.Location.FormattedAddress, &b.Location.Street, &b.Location.City, &b.Location.State,
		&b.Location.Zipcode, &b.Location.Country,
		&b.Careers, &b.Photo, &b.Housing, &b.JobAssistance, &b.JobGuarantee, &b.AcceptGi, &b.CreatedAt,
		&b.AverageRating, &b.AverageCost,
	}
}

func (r *BootcampsRepo) Create(ctx context.Context, b bootcamp.Bootcamp) (bootcamp.Bootcamp, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.Photo == "" {
		b.Photo = bootcamp.DefaultPhoto
	}

	err := r.observe("bootcamps.create", func() error {
		_, err := r.conn(ctx).Exec(ctx,
			`INSERT INTO bootcamps (id, user_id, name, slug, description, website, phone, email,
				location_type, longitude, latitude, formatted_address, street, city, state, zipcode, country,
				careers, photo, housing, job_assistance, job_guarantee, accept_gi, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
				$18, $19, $20, $21, $22, $23, $24)`,
			b.ID, b.UserID, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email,
			b.Location.Type, b.Location.Longitude(), b.Location.Latitude(),
			b.Location.FormattedAddress, b.Location.Street, b.Location.City, b.Location.State,
			b.Location.Zipcode, b.Location.Country,
			b.Careers, b.Photo, b.Housing, b.JobAssistance, b.JobGuarantee, b.AcceptGi, b.CreatedAt,
		)
		return err
	})
	if err != nil {
		return bootcamp.Bootcamp{}, err
	}

	b.Address = ""
	return b, nil
}

func (r *BootcampsRepo) GetByID(ctx context.Context, id string) (bootcamp.Bootcamp, error) {
	var b bootcamp.Bootcamp

	err := r.observe("bootcamps.get_by_id", func() error {
		err := r.conn(ctx).QueryRow(ctx,
			`SELECT `+bootcampColumns+` FROM (`+bootcampsView+`) v WHERE id = $1`, id,
		).Scan(bootcampDest(&b)...)
		if errors.Is(err, pgx.ErrNoRows) {
			return bootcamp.ErrNotFound
		}
		return err
	})
	if err != nil {
		return bootcamp.Bootcamp{}, err
	}
	return b, nil
}

func (r *BootcampsRepo) List(ctx context.Context, f bootcamp.ListFilter) ([]bootcamp.Bootcamp, int, error) {
	var w whereBuilder

	if f.Careers != nil {
		w.add("? = ANY(careers)", *f.Careers)
	}
	if f.City != nil {
		w.add("LOWER(city) = LOWER(?)", *f.City)
	}
	if f.State != nil {
		w.add("LOWER(state) = LOWER(?)", *f.State)
	}
	if f.Housing != nil {
		w.add("housing = ?", *f.Housing)
	}
	if f.JobGuarantee != nil {
		w.add("job_guarantee = ?", *f.JobGuarantee)
	}
	if f.MaxCost != nil {
		w.add("average_cost <= ?", *f.MaxCost)
	}

	query := `SELECT ` + bootcampColumns + `, COUNT(*) OVER() AS total FROM (` + bootcampsView + `) v` +
		w.sql() +
		orderBy(f.Sort, bootcampSort, []utils.SortField{{Column: "created_at", Desc: true}}) +
		w.page(f.Limit, f.Offset)

	out := make([]bootcamp.Bootcamp, 0, f.Limit)
	total := 0

	err := r.observe("bootcamps.list", func() error {
		rows, err := r.conn(ctx).Query(ctx, query, w.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b bootcamp.Bootcamp
			if err := rows.Scan(append(bootcampDest(&b), &total)...); err != nil {
				return err
			}
			out = append(out, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// ListWithinRadius returns every bootcamp within miles of the point, nearest first.
func (r *BootcampsRepo) ListWithinRadius(ctx context.Context, lat, lng, miles float64) ([]bootcamp.Bootcamp, error) {
	query := `SELECT ` + bootcampColumns + ` FROM (` + bootcampsView + `) v
		WHERE ` + distanceMiles + ` <= $3
		ORDER BY ` + distanceMiles + ` ASC, id ASC`

	var out []bootcamp.Bootcamp

	err := r.observe("bootcamps.list_within_radius", func() error {
		rows, err := r.conn(ctx).Query(ctx, query, lat, lng, miles)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b bootcamp.Bootcamp
			if err := rows.Scan(bootcampDest(&b)...); err != nil {
				return err
			}
			out = append(out, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Update writes every mutable column of b. A non-empty ownerID restricts the write
// to rows still owned by that user; a row that no longer matches reports ErrNotFound.
func (r *BootcampsRepo) Update(ctx context.Context, b bootcamp.Bootcamp, ownerID string) (bootcamp.Bootcamp, error) {
	err := r.observe("bootcamps.update", func() error {
		tag, err := r.conn(ctx).Exec(ctx,
			`UPDATE bootcamps SET
				name = $2, slug = $3, description = $4, website = $5, phone = $6, email = $7,
				location_type = $8, longitude = $9, latitude = $10, formatted_address = $11,
				street = $12, city = $13, state = $14, zipcode = $15, country = $16,
				careers = $17, photo = $18, housing = $19, job_assistance = $20,
				job_guarantee = $21, accept_gi = $22
			WHERE id = $1 AND ($23::uuid IS NULL OR user_id = $23::uuid)`,
			b.ID, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email,
			b.Location.Type, b.Location.Longitude(), b.Location.Latitude(), b.Location.FormattedAddress,
			b.Location.Street, b.Location.City, b.Location.State, b.Location.Zipcode, b.Location.Country,
			b.Careers, b.Photo, b.Housing, b.JobAssistance,
			b.JobGuarantee, b.AcceptGi,
			ownerArg(ownerID),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return bootcamp.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return bootcamp.Bootcamp{}, err
	}

	return r.GetByID(ctx, b.ID)
}

// Delete removes only the bootcamp row; callers remove children first in the same transaction.
func (r *BootcampsRepo) Delete(ctx context.Context, id, ownerID string) error {
	return r.observe("bootcamps.delete", func() error {
		tag, err := r.conn(ctx).Exec(ctx,
			`DELETE FROM bootcamps WHERE id = $1 AND ($2::uuid IS NULL OR user_id = $2::uuid)`,
			id, ownerArg(ownerID),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return bootcamp.ErrNotFound
		}
		return nil
	})
}

func (r *BootcampsRepo) CountByOwner(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.observe("bootcamps.count_by_owner", func() error {
		return r.conn(ctx).QueryRow(ctx,
			`SELECT COUNT(*) FROM bootcamps WHERE user_id = $1`, userID,
		).Scan(&n)
	})
	return n, err
}
