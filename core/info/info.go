// Package info serves the organisation's static public details: the bank
// account donors pay into and the board of directors.
package info

type BankAccountInfo struct {
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	BranchCode    string `json:"branch_code"`
	AccountType   string `json:"account_type"`
	Reference     string `json:"reference"`
}

type Director struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Bio   string `json:"bio,omitempty"`
	Image string `json:"image,omitempty"` // URL
}

type Service struct {
	bankAccount BankAccountInfo
	directors   []Director
}

// NewService seeds the static content. The seed lives in code rather than the
// database; it changes at the cadence of releases, not requests.
func NewService() *Service {
	return &Service{
		bankAccount: BankAccountInfo{
			BankName:      "Standard Bank",
			AccountHolder: "SALEAF NPC",
			AccountNumber: "123456789",
			BranchCode:    "051001",
			AccountType:   "Current",
			Reference:     "Donation + your name",
		},
		directors: []Director{
			{Name: "N. Abdelnour", Role: "Chairperson"},
			{Name: "S. Khoury", Role: "Treasurer"},
			{Name: "M. Haddad", Role: "Director of Bursaries"},
			{Name: "L. Sarkis", Role: "Director of Events"},
		},
	}
}

func (svc *Service) BankAccount() BankAccountInfo { return svc.bankAccount }

func (svc *Service) Directors() []Director {
	// callers must not mutate the seed
	out := make([]Director, len(svc.directors))
	copy(out, svc.directors)
	return out
}
