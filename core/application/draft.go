package application

import (
	"github.com/charbel-francis/saleaf/core"
)

// FamilyMember describes one relative's financial particulars. The same shape
// is reused for the father, mother, each sibling, the applicant and a guardian.
type FamilyMember struct {
	Name               string  `json:"name"`
	Surname            string  `json:"surname"`
	IDNumber           string  `json:"idNumber"`
	Occupation         string  `json:"occupation"`
	MaritalStatus      string  `json:"maritalStatus"`
	GrossMonthlyIncome float64 `json:"grossMonthlyIncome"`
	OtherIncome        float64 `json:"otherIncome"`
}

type Dependent struct {
	FullName      string  `json:"fullName"`
	Relationship  string  `json:"relationship"`
	Age           int     `json:"age"`
	School        string  `json:"school"`
	EducationCost float64 `json:"educationCost"`
}

type FixedProperty struct {
	PhysicalAddress string  `json:"physicalAddress"`
	ErfNoTownship   string  `json:"erfNoTownship"`
	DatePurchased   string  `json:"datePurchased"`
	MunicipalValue  float64 `json:"municipalValue"`
	PresentValue    float64 `json:"presentValue"`
}

type Vehicle struct {
	MakeModelYear      string  `json:"makeModelYear"`
	RegistrationNumber string  `json:"registrationNumber"`
	PresentValue       float64 `json:"presentValue"`
}

type Investment struct {
	Institution string  `json:"institution"`
	Description string  `json:"description"`
	MarketValue float64 `json:"marketValue"`
}

// FinancialDetails groups the family members' financial particulars.
// Absence of a member (nil) is distinct from a zero-valued one.
type FinancialDetails struct {
	Father        *FamilyMember  `json:"father,omitempty"`
	Mother        *FamilyMember  `json:"mother,omitempty"`
	Siblings      []FamilyMember `json:"siblings,omitempty"`
	SelfApplicant *FamilyMember  `json:"selfApplicant,omitempty"`
	Guardian      *FamilyMember  `json:"guardian,omitempty"`
}

// Member returns the named member, or a zero FamilyMember when absent;
// reading an absent member's fields must never fail.
func (fd FinancialDetails) Member(m *FamilyMember) FamilyMember {
	if m == nil {
		return FamilyMember{}
	}
	return *m
}

func (fd FinancialDetails) FatherOrZero() FamilyMember        { return fd.Member(fd.Father) }
func (fd FinancialDetails) MotherOrZero() FamilyMember        { return fd.Member(fd.Mother) }
func (fd FinancialDetails) SelfApplicantOrZero() FamilyMember { return fd.Member(fd.SelfApplicant) }
func (fd FinancialDetails) GuardianOrZero() FamilyMember      { return fd.Member(fd.Guardian) }

// AnyPresent reports whether at least one member's particulars were supplied.
func (fd FinancialDetails) AnyPresent() bool {
	return fd.Father != nil || fd.Mother != nil || fd.SelfApplicant != nil ||
		fd.Guardian != nil || len(fd.Siblings) > 0
}

// Draft is the composite record a bursary application accumulates before
// submission. It has no identity until submitted.
type Draft struct {
	// personal details
	Name                 string `json:"name"`
	Surname              string `json:"surname"`
	SAIDNumber           string `json:"saIdNumber"`
	DateOfBirth          string `json:"dateOfBirth"`
	Email                string `json:"email"`
	ContactNumber        string `json:"contactNumber"`
	HomePhysicalAddress  string `json:"homePhysicalAddress"`
	HomePostalAddress    string `json:"homePostalAddress"`
	DisabilityExplanation string `json:"disabilityExplanation"`

	// study details
	Institution   string `json:"institution"`
	Degree        string `json:"degree"`
	YearOfStudy   string `json:"yearOfStudy"`
	StudentNumber string `json:"studentNumber"`

	// academic history
	TertiarySubjectsAndResults string `json:"tertiarySubjectsAndResults"`
	Grade12SubjectsAndResults  string `json:"grade12SubjectsAndResults"`
	Grade11SubjectsAndResults  string `json:"grade11SubjectsAndResults"`

	// additional information
	LeadershipRoles             string `json:"leadershipRoles"`
	SportsAndCulturalActivities string `json:"sportsAndCulturalActivities"`
	HobbiesAndInterests         string `json:"hobbiesAndInterests"`
	ReasonForStudyFieldChoice   string `json:"reasonForStudyFieldChoice"`
	SelfDescription             string `json:"selfDescription"`

	// financial details
	FinancialDetails       FinancialDetails `json:"financialDetailsList"`
	Dependents             []Dependent      `json:"dependents"`
	DependentsAtPreSchool  int              `json:"dependentsAtPreSchool"`
	DependentsAtSchool     int              `json:"dependentsAtSchool"`
	DependentsAtUniversity int              `json:"dependentsAtUniversity"`

	// assets
	FixedProperties           []FixedProperty `json:"fixedProperties"`
	Vehicles                  []Vehicle       `json:"vehicles"`
	Investments               []Investment    `json:"investments"`
	JewelleryValue            float64         `json:"jewelleryValue"`
	FurnitureAndFittingsValue float64         `json:"furnitureAndFittingsValue"`
	EquipmentValue            float64         `json:"equipmentValue"`

	// liabilities
	Overdrafts            float64 `json:"overdrafts"`
	UnsecuredLoans        float64 `json:"unsecuredLoans"`
	CreditCardDebts       float64 `json:"creditCardDebts"`
	IncomeTaxDebts        float64 `json:"incomeTaxDebts"`
	ContingentLiabilities float64 `json:"contingentLiabilities"`

	// declaration (review step)
	DeclarationSignature string `json:"declarationSignature"`
	DeclarationDate      string `json:"declarationDate"`

	// supporting documents, one slot per field
	Documents map[DocumentField]core.Upload `json:"-"`
}

// NewDraft returns a Draft with empty defaults, optionally pre-filled from initial.
// Every nested collection defaults to an empty sequence.
func NewDraft(initial *Draft) Draft {
	var d Draft
	if initial != nil {
		d = *initial
	}
	if d.Dependents == nil {
		d.Dependents = []Dependent{}
	}
	if d.FixedProperties == nil {
		d.FixedProperties = []FixedProperty{}
	}
	if d.Vehicles == nil {
		d.Vehicles = []Vehicle{}
	}
	if d.Investments == nil {
		d.Investments = []Investment{}
	}
	if d.Documents == nil {
		d.Documents = make(map[DocumentField]core.Upload)
	}
	return d
}

// Patch is a partial Draft; nil fields are absent and leave the Draft untouched.
// Slices, maps and the financial-details group are replaced wholesale: Apply is
// a shallow merge, the last write per key wins.
type Patch struct {
	Name                  *string `json:"name,omitempty"`
	Surname               *string `json:"surname,omitempty"`
	SAIDNumber            *string `json:"saIdNumber,omitempty"`
	DateOfBirth           *string `json:"dateOfBirth,omitempty"`
	Email                 *string `json:"email,omitempty"`
	ContactNumber         *string `json:"contactNumber,omitempty"`
	HomePhysicalAddress   *string `json:"homePhysicalAddress,omitempty"`
	HomePostalAddress     *string `json:"homePostalAddress,omitempty"`
	DisabilityExplanation *string `json:"disabilityExplanation,omitempty"`

	Institution   *string `json:"institution,omitempty"`
	Degree        *string `json:"degree,omitempty"`
	YearOfStudy   *string `json:"yearOfStudy,omitempty"`
	StudentNumber *string `json:"studentNumber,omitempty"`

	TertiarySubjectsAndResults *string `json:"tertiarySubjectsAndResults,omitempty"`
	Grade12SubjectsAndResults  *string `json:"grade12SubjectsAndResults,omitempty"`
	Grade11SubjectsAndResults  *string `json:"grade11SubjectsAndResults,omitempty"`

	LeadershipRoles             *string `json:"leadershipRoles,omitempty"`
	SportsAndCulturalActivities *string `json:"sportsAndCulturalActivities,omitempty"`
	HobbiesAndInterests         *string `json:"hobbiesAndInterests,omitempty"`
	ReasonForStudyFieldChoice   *string `json:"reasonForStudyFieldChoice,omitempty"`
	SelfDescription             *string `json:"selfDescription,omitempty"`

	FinancialDetails *FinancialDetails `json:"financialDetailsList,omitempty"`
	Dependents       []Dependent       `json:"dependents,omitempty"`

	DependentsAtPreSchool  *int `json:"dependentsAtPreSchool,omitempty"`
	DependentsAtSchool     *int `json:"dependentsAtSchool,omitempty"`
	DependentsAtUniversity *int `json:"dependentsAtUniversity,omitempty"`

	FixedProperties []FixedProperty `json:"fixedProperties,omitempty"`
	Vehicles        []Vehicle       `json:"vehicles,omitempty"`
	Investments     []Investment    `json:"investments,omitempty"`

	JewelleryValue            *float64 `json:"jewelleryValue,omitempty"`
	FurnitureAndFittingsValue *float64 `json:"furnitureAndFittingsValue,omitempty"`
	EquipmentValue            *float64 `json:"equipmentValue,omitempty"`

	Overdrafts            *float64 `json:"overdrafts,omitempty"`
	UnsecuredLoans        *float64 `json:"unsecuredLoans,omitempty"`
	CreditCardDebts       *float64 `json:"creditCardDebts,omitempty"`
	IncomeTaxDebts        *float64 `json:"incomeTaxDebts,omitempty"`
	ContingentLiabilities *float64 `json:"contingentLiabilities,omitempty"`

	DeclarationSignature *string `json:"declarationSignature,omitempty"`
	DeclarationDate      *string `json:"declarationDate,omitempty"`
}

// Apply shallow-merges p into the Draft. No validation is performed; it always succeeds.
func (d *Draft) Apply(p Patch) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	setStr(&d.Name, p.Name)
	setStr(&d.Surname, p.Surname)
	setStr(&d.SAIDNumber, p.SAIDNumber)
	setStr(&d.DateOfBirth, p.DateOfBirth)
	setStr(&d.Email, p.Email)
	setStr(&d.ContactNumber, p.ContactNumber)
	setStr(&d.HomePhysicalAddress, p.HomePhysicalAddress)
	setStr(&d.HomePostalAddress, p.HomePostalAddress)
	setStr(&d.DisabilityExplanation, p.DisabilityExplanation)

	setStr(&d.Institution, p.Institution)
	setStr(&d.Degree, p.Degree)
	setStr(&d.YearOfStudy, p.YearOfStudy)
	setStr(&d.StudentNumber, p.StudentNumber)

	setStr(&d.TertiarySubjectsAndResults, p.TertiarySubjectsAndResults)
	setStr(&d.Grade12SubjectsAndResults, p.Grade12SubjectsAndResults)
	setStr(&d.Grade11SubjectsAndResults, p.Grade11SubjectsAndResults)

	setStr(&d.LeadershipRoles, p.LeadershipRoles)
	setStr(&d.SportsAndCulturalActivities, p.SportsAndCulturalActivities)
	setStr(&d.HobbiesAndInterests, p.HobbiesAndInterests)
	setStr(&d.ReasonForStudyFieldChoice, p.ReasonForStudyFieldChoice)
	setStr(&d.SelfDescription, p.SelfDescription)

	if p.FinancialDetails != nil {
		d.FinancialDetails = *p.FinancialDetails
	}
	if p.Dependents != nil {
		d.Dependents = p.Dependents
	}
	setInt(&d.DependentsAtPreSchool, p.DependentsAtPreSchool)
	setInt(&d.DependentsAtSchool, p.DependentsAtSchool)
	setInt(&d.DependentsAtUniversity, p.DependentsAtUniversity)

	if p.FixedProperties != nil {
		d.FixedProperties = p.FixedProperties
	}
	if p.Vehicles != nil {
		d.Vehicles = p.Vehicles
	}
	if p.Investments != nil {
		d.Investments = p.Investments
	}
	setFloat(&d.JewelleryValue, p.JewelleryValue)
	setFloat(&d.FurnitureAndFittingsValue, p.FurnitureAndFittingsValue)
	setFloat(&d.EquipmentValue, p.EquipmentValue)

	setFloat(&d.Overdrafts, p.Overdrafts)
	setFloat(&d.UnsecuredLoans, p.UnsecuredLoans)
	setFloat(&d.CreditCardDebts, p.CreditCardDebts)
	setFloat(&d.IncomeTaxDebts, p.IncomeTaxDebts)
	setFloat(&d.ContingentLiabilities, p.ContingentLiabilities)

	setStr(&d.DeclarationSignature, p.DeclarationSignature)
	setStr(&d.DeclarationDate, p.DeclarationDate)
}
