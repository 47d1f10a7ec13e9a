package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/charbel-francis/saleaf/core/student"
)

type dbProfile struct {
	ID               string      `db:"id"`
	UserID           string      `db:"user_id"`
	FirstName        string      `db:"first_name"`
	LastName         string      `db:"last_name"`
	Bio              string      `db:"bio"`
	Institution      string      `db:"institution"`
	Degree           string      `db:"degree"`
	YearOfStudy      string      `db:"year_of_study"`
	ImageFilename    null.String `db:"image_filename"`
	ImageContentType null.String `db:"image_content_type"`
	Image            []byte      `db:"image"`
	CreatedAt        time.Time   `db:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at"`
}

func (p dbProfile) toCore() student.Profile {
	return student.Profile{
		ID:               p.ID,
		UserID:           p.UserID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Bio:              p.Bio,
		Institution:      p.Institution,
		Degree:           p.Degree,
		YearOfStudy:      p.YearOfStudy,
		ImageFilename:    p.ImageFilename.String,
		ImageContentType: p.ImageContentType.String,
		Image:            p.Image,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateProfile(ctx context.Context, prof student.Profile) (student.Profile, error) {
	prof.ID = uuid.New().String()
	now := time.Now().UTC()
	prof.CreatedAt, prof.UpdatedAt = now, now

	query := `
		INSERT INTO student_profile
			(id, user_id, first_name, last_name, bio, institution, degree, year_of_study,
			 image_filename, image_content_type, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := repo.db.ExecContext(ctx, query,
		prof.ID, prof.UserID, prof.FirstName, prof.LastName, prof.Bio,
		prof.Institution, prof.Degree, prof.YearOfStudy,
		null.NewString(prof.ImageFilename, prof.ImageFilename != ""),
		null.NewString(prof.ImageContentType, prof.ImageContentType != ""),
		prof.Image, prof.CreatedAt, prof.UpdatedAt,
	)
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "inserting profile")
	}
	return prof, nil
}

func (repo studentRepository) GetProfileByUserID(ctx context.Context, userID string) (student.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return student.Profile{}, student.ErrNotFound
	}

	var row dbProfile
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM student_profile WHERE user_id = $1`, userID)
	if err != nil {
		return student.Profile{}, repo.trapNoRowsErr(err, "finding profile")
	}
	return row.toCore(), nil
}

func (repo studentRepository) UpdateProfile(ctx context.Context, prof student.Profile) (student.Profile, error) {
	prof.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE student_profile SET
			first_name         = $2,
			last_name          = $3,
			bio                = $4,
			institution        = $5,
			degree             = $6,
			year_of_study      = $7,
			image_filename     = $8,
			image_content_type = $9,
			image              = COALESCE($10, image),
			updated_at         = $11
		WHERE id = $1`
	var image interface{}
	if len(prof.Image) > 0 {
		image = prof.Image
	}
	res, err := repo.db.ExecContext(ctx, query,
		prof.ID, prof.FirstName, prof.LastName, prof.Bio,
		prof.Institution, prof.Degree, prof.YearOfStudy,
		null.NewString(prof.ImageFilename, prof.ImageFilename != ""),
		null.NewString(prof.ImageContentType, prof.ImageContentType != ""),
		image, prof.UpdatedAt,
	)
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "updating profile")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Profile{}, student.ErrNotFound
	}
	return prof, nil
}
