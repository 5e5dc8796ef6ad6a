package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

// courses joined with the summary of their bootcamp
const coursesJoined = `
	SELECT c.id, c.bootcamp_id, c.user_id, c.title, c.description, c.weeks, c.tuition,
		c.minimum_skill, c.scholarship_available, c.created_at,
		b.name AS bootcamp_name, b.description AS bootcamp_description
	FROM courses c
	JOIN bootcamps b ON b.id = c.bootcamp_id`

var courseSort = map[string]string{
	"title":     "title",
	"tuition":   "tuition",
	"weeks":     "weeks",
	"createdAt": "created_at",
}

type CoursesRepo struct {
	store
}

func NewCoursesRepo(db DBTX, obs Observer) *CoursesRepo {
	return &CoursesRepo{store{db: db, obs: obs}}
}

func scanCourse(row pgx.Row, extra ...any) (course.Course, error) {
	var c course.Course
	var summary bootcamp.Summary

	dest := []any{
		&c.ID, &c.BootcampID, &c.UserID, &c.Title, &c.Description, &c.Weeks, &c.Tuition,
		&c.MinimumSkill, &c.ScholarshipAvailable, &c.CreatedAt,
		&summary.Name, &summary.Description,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return course.Course{}, err
	}

	summary.ID = c.BootcampID
	c.Bootcamp = &summary
	return c, nil
}

func (r *CoursesRepo) Create(ctx context.Context, c course.Course) (course.Course, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	err := r.observe("courses.create", func() error {
		_, err := r.conn(ctx).Exec(ctx,
			`INSERT INTO courses (id, bootcamp_id, user_id, title, description, weeks, tuition,
				minimum_skill, scholarship_available, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			c.ID, c.BootcampID, c.UserID, c.Title, c.Description, c.Weeks, c.Tuition,
			c.MinimumSkill, c.ScholarshipAvailable, c.CreatedAt,
		)
		return err
	})
	if err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (r *CoursesRepo) GetByID(ctx context.Context, id string) (course.Course, error) {
	var c course.Course
	err := r.observe("courses.get_by_id", func() error {
		var err error
		c, err = scanCourse(r.conn(ctx).QueryRow(ctx, coursesJoined+` WHERE c.id = $1`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return course.ErrNotFound
		}
		return err
	})
	return c, err
}

func (r *CoursesRepo) List(ctx context.Context, f course.ListFilter) ([]course.Course, int, error) {
	var w whereBuilder
	if f.BootcampID != nil {
		w.add("bootcamp_id = ?", *f.BootcampID)
	}

	query := `SELECT *, COUNT(*) OVER() AS total FROM (` + coursesJoined + `) v` + w.sql() +
		orderBy(f.Sort, courseSort, []utils.SortField{{Column: "created_at", Desc: true}}) +
		w.page(f.Limit, f.Offset)

	out := make([]course.Course, 0, f.Limit)
	total := 0

	err := r.observe("courses.list", func() error {
		rows, err := r.conn(ctx).Query(ctx, query, w.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCourse(rows, &total)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// ListByBootcamp returns every course of a bootcamp, oldest first.
func (r *CoursesRepo) ListByBootcamp(ctx context.Context, bootcampID string) ([]course.Course, error) {
	out := []course.Course{}

	err := r.observe("courses.list_by_bootcamp", func() error {
		rows, err := r.conn(ctx).Query(ctx,
			coursesJoined+` WHERE c.bootcamp_id = $1 ORDER BY c.created_at ASC, c.id ASC`, bootcampID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCourse(rows)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update is guarded by ownerID the same way as BootcampsRepo.Update.
func (r *CoursesRepo) Update(ctx context.Context, c course.Course, ownerID string) (course.Course, error) {
	err := r.observe("courses.update", func() error {
		tag, err := r.conn(ctx).Exec(ctx,
			`UPDATE courses SET title = $2, description = $3, weeks = $4, tuition = $5,
				minimum_skill = $6, scholarship_available = $7
			WHERE id = $1 AND ($8::uuid IS NULL OR user_id = $8::uuid)`,
			c.ID, c.Title, c.Description, c.Weeks, c.Tuition, c.MinimumSkill, c.ScholarshipAvailable,
			ownerArg(ownerID),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return course.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return course.Course{}, err
	}

	return r.GetByID(ctx, c.ID)
}

func (r *CoursesRepo) Delete(ctx context.Context, id, ownerID string) error {
	return r.observe("courses.delete", func() error {
		tag, err := r.conn(ctx).Exec(ctx,
			`DELETE FROM courses WHERE id = $1 AND ($2::uuid IS NULL OR user_id = $2::uuid)`,
			id, ownerArg(ownerID),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return course.ErrNotFound
		}
		return nil
	})
}

func (r *CoursesRepo) DeleteByBootcamp(ctx context.Context, bootcampID string) (int, error) {
	var n int64
	err := r.observe("courses.delete_by_bootcamp", func() error {
		tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM courses WHERE bootcamp_id = $1`, bootcampID)
		n = tag.RowsAffected()
		return err
	})
	return int(n), err
}
