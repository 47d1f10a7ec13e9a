package student

import (
	"time"

	"github.com/charbel-francis/saleaf/core"
)

type Profile struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Bio         string `json:"bio"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	YearOfStudy string `json:"year_of_study"`

	ImageFilename    string `json:"image_filename,omitempty"`
	ImageContentType string `json:"image_content_type,omitempty"`
	Image            []byte `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Profile) HasImage() bool { return len(p.Image) > 0 }

// NewProfile is all the info needed to create a student's profile.
type NewProfile struct {
	FirstName   string `json:"first_name" form:"first_name" validate:"required"`
	LastName    string `json:"last_name" form:"last_name" validate:"required"`
	Bio         string `json:"bio" form:"bio" validate:"max=2000"`
	Institution string `json:"institution" form:"institution" validate:"required"`
	Degree      string `json:"degree" form:"degree" validate:"required"`
	YearOfStudy string `json:"year_of_study" form:"year_of_study" validate:"required"`

	Image *core.Upload `json:"-"`
}

func (np *NewProfile) Validate() error {
	np.FirstName = core.CleanString(np.FirstName)
	np.LastName = core.CleanString(np.LastName)
	np.Bio = core.CleanString(np.Bio)
	np.Institution = core.CleanString(np.Institution)
	np.Degree = core.CleanString(np.Degree)
	np.YearOfStudy = core.CleanString(np.YearOfStudy)

	if err := core.Validate.Struct(np); err != nil {
		return err
	}
	if np.Image != nil {
		return core.ValidateUpload(np.Image, "image")
	}
	return nil
}

// UpdateProfile is what a student may change on their profile. Omitted fields
// keep their original values.
type UpdateProfile struct {
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	Bio         string `json:"bio" form:"bio" validate:"max=2000"`
	Institution string `json:"institution" form:"institution"`
	Degree      string `json:"degree" form:"degree"`
	YearOfStudy string `json:"year_of_study" form:"year_of_study"`

	Image *core.Upload `json:"-"`
}

func (up *UpdateProfile) Validate(orig Profile) error {
	up.FirstName = core.CleanString(up.FirstName)
	if up.FirstName == "" {
		up.FirstName = orig.FirstName
	}
	up.LastName = core.CleanString(up.LastName)
	if up.LastName == "" {
		up.LastName = orig.LastName
	}
	up.Bio = core.CleanString(up.Bio)
	if up.Bio == "" {
		up.Bio = orig.Bio
	}
	up.Institution = core.CleanString(up.Institution)
	if up.Institution == "" {
		up.Institution = orig.Institution
	}
	up.Degree = core.CleanString(up.Degree)
	if up.Degree == "" {
		up.Degree = orig.Degree
	}
	up.YearOfStudy = core.CleanString(up.YearOfStudy)
	if up.YearOfStudy == "" {
		up.YearOfStudy = orig.YearOfStudy
	}

	if err := core.Validate.Struct(up); err != nil {
		return err
	}
	if up.Image != nil {
		return core.ValidateUpload(up.Image, "image")
	}
	return nil
}
