package application

import (
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core"
)

// Step indexes the fixed, ordered sequence of form sections.
type Step int

const (
	StepPersonalDetails Step = iota
	StepStudyDetails
	StepAcademicHistory
	StepAdditionalInformation
	StepFinancialDetails
	StepAssetsAndLiabilities
	StepReview

	stepCount
)

// LastStep is the final (review) step.
const LastStep = StepReview

var stepNames = map[Step]string{
	StepPersonalDetails:       "Personal Details",
	StepStudyDetails:          "Study Details",
	StepAcademicHistory:       "Academic History",
	StepAdditionalInformation: "Additional Information",
	StepFinancialDetails:      "Financial Details",
	StepAssetsAndLiabilities:  "Assets & Liabilities",
	StepReview:                "Review & Declaration",
}

func (s Step) String() string { return stepNames[s] }

func (s Step) IsValid() bool { return s >= 0 && s < stepCount }

var errIncompleteStep = errors.New("step is incomplete")

// StepValidator reports the step's missing/invalid fields as a
// *core.ValidationError; nil means the step is complete.
type StepValidator func(*Draft) error

// stepValidators is the declarative per-step validation registry; every step
// has an entry so the gate is uniform across the whole sequence.
var stepValidators = map[Step]StepValidator{
	StepPersonalDetails:       validatePersonalDetails,
	StepStudyDetails:          validateStudyDetails,
	StepAcademicHistory:       validateAcademicHistory,
	StepAdditionalInformation: validateAdditionalInformation,
	StepFinancialDetails:      validateFinancialDetails,
	StepAssetsAndLiabilities:  validateAssetsAndLiabilities,
	StepReview:                validateReview,
}

// ValidateStep runs the step's registered validator against the draft.
func ValidateStep(s Step, d *Draft) error {
	validate, ok := stepValidators[s]
	if !ok {
		return nil
	}
	return validate(d)
}

func requireFields(pairs ...[2]string) error {
	var flds []core.FieldError
	for _, pair := range pairs {
		field, value := pair[0], pair[1]
		if core.CleanString(value) == "" {
			flds = append(flds, core.FieldError{Field: field, Error: "this field is required"})
		}
	}
	if flds != nil {
		return core.NewValidationError(errIncompleteStep, flds...)
	}
	return nil
}

func validatePersonalDetails(d *Draft) error {
	return requireFields(
		[2]string{"name", d.Name},
		[2]string{"surname", d.Surname},
		[2]string{"saIdNumber", d.SAIDNumber},
		[2]string{"email", d.Email},
		[2]string{"contactNumber", d.ContactNumber},
	)
}

func validateStudyDetails(d *Draft) error {
	return requireFields(
		[2]string{"institution", d.Institution},
		[2]string{"degree", d.Degree},
		[2]string{"yearOfStudy", d.YearOfStudy},
	)
}

func validateAcademicHistory(d *Draft) error {
	// grade 12 results may come as captured text or as an uploaded document
	if core.CleanString(d.Grade12SubjectsAndResults) != "" {
		return nil
	}
	if _, ok := d.Document(DocGrade12Results); ok {
		return nil
	}
	return core.NewValidationError(errIncompleteStep, core.FieldError{
		Field: "grade12SubjectsAndResults",
		Error: "grade 12 subjects and results are required, captured or uploaded",
	})
}

func validateAdditionalInformation(*Draft) error {
	// every field in this section is optional
	return nil
}

func validateFinancialDetails(d *Draft) error {
	if d.FinancialDetails.AnyPresent() {
		return nil
	}
	return core.NewValidationError(errIncompleteStep, core.FieldError{
		Field: "financialDetailsList",
		Error: "financial particulars of at least one family member (or the applicant) are required",
	})
}

func validateAssetsAndLiabilities(*Draft) error {
	// zero-valued assets and liabilities are legitimate
	return nil
}

func validateReview(d *Draft) error {
	return requireFields(
		[2]string{"declarationSignature", d.DeclarationSignature},
		[2]string{"declarationDate", d.DeclarationDate},
	)
}
