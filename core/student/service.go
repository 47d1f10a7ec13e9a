package student

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound      = errors.New("profile not found")
	ErrProfileExists = errors.New("a profile already exists for this user")
)

type (
	Repository interface {
		CreateProfile(ctx context.Context, prof Profile) (Profile, error)
		GetProfileByUserID(ctx context.Context, userID string) (Profile, error)
		UpdateProfile(ctx context.Context, prof Profile) (Profile, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, userID string, np NewProfile) (Profile, error) {
	if _, err := svc.repo.GetProfileByUserID(ctx, userID); err == nil {
		return Profile{}, ErrProfileExists
	} else if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	prof := Profile{
		UserID:      userID,
		FirstName:   np.FirstName,
		LastName:    np.LastName,
		Bio:         np.Bio,
		Institution: np.Institution,
		Degree:      np.Degree,
		YearOfStudy: np.YearOfStudy,
	}
	if np.Image != nil {
		prof.ImageFilename = np.Image.Filename
		prof.ImageContentType = np.Image.ContentType
		prof.Image = np.Image.Content
	}
	return svc.repo.CreateProfile(ctx, prof)
}

func (svc *Service) GetByUser(ctx context.Context, userID string) (Profile, error) {
	return svc.repo.GetProfileByUserID(ctx, userID)
}

func (svc *Service) Update(ctx context.Context, userID string, up UpdateProfile) (Profile, error) {
	prof, err := svc.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if err = up.Validate(prof); err != nil {
		return Profile{}, err
	}

	prof.FirstName = up.FirstName
	prof.LastName = up.LastName
	prof.Bio = up.Bio
	prof.Institution = up.Institution
	prof.Degree = up.Degree
	prof.YearOfStudy = up.YearOfStudy
	if up.Image != nil {
		prof.ImageFilename = up.Image.Filename
		prof.ImageContentType = up.Image.ContentType
		prof.Image = up.Image.Content
	}
	return svc.repo.UpdateProfile(ctx, prof)
}
