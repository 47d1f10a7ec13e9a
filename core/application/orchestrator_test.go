package application

import (
	"testing"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func personalDetailsPatch() Patch {
	return Patch{
		Name:          strPtr("Jane"),
		Surname:       strPtr("Doe"),
		SAIDNumber:    strPtr("123"),
		Email:         strPtr("j@x.com"),
		ContactNumber: strPtr("0820000000"),
	}
}

func Test_Orchestrator_UpdateState(t *testing.T) {
	o := NewOrchestrator(nil)

	// applying a sequence of patches equals the shallow merge in call order
	o.UpdateState(Patch{Name: strPtr("Jane"), Email: strPtr("old@x.com")})
	o.UpdateState(Patch{Surname: strPtr("Doe")})
	o.UpdateState(Patch{Email: strPtr("j@x.com")}) // last write per key wins
	o.UpdateState(Patch{Vehicles: []Vehicle{{MakeModelYear: "Corolla 2010", PresentValue: 50000}}})

	d := o.Draft()
	if d.Name != "Jane" || d.Surname != "Doe" || d.Email != "j@x.com" {
		t.Errorf("Draft() = %+v; want merged scalars", d)
	}
	if len(d.Vehicles) != 1 || d.Vehicles[0].PresentValue != 50000 {
		t.Errorf("Vehicles = %+v; want replaced wholesale", d.Vehicles)
	}

	// untouched collections keep their empty defaults
	if d.Dependents == nil || len(d.Dependents) != 0 {
		t.Errorf("Dependents = %v; want empty default", d.Dependents)
	}
}

func Test_Orchestrator_IsStepValid(t *testing.T) {
	required := map[string]func(p *Patch){
		"name":          func(p *Patch) { p.Name = nil },
		"surname":       func(p *Patch) { p.Surname = nil },
		"saIdNumber":    func(p *Patch) { p.SAIDNumber = nil },
		"email":         func(p *Patch) { p.Email = nil },
		"contactNumber": func(p *Patch) { p.ContactNumber = nil },
	}
	for field, drop := range required {
		t.Run("missing "+field, func(t *testing.T) {
			o := NewOrchestrator(nil)
			p := personalDetailsPatch()
			drop(&p)
			o.UpdateState(p)
			if o.IsStepValid(StepPersonalDetails) {
				t.Errorf("IsStepValid(StepPersonalDetails) = true with empty %s", field)
			}
		})
	}

	t.Run("all fields set", func(t *testing.T) {
		o := NewOrchestrator(nil)
		o.UpdateState(personalDetailsPatch())
		// other fields' values are irrelevant
		if !o.IsStepValid(StepPersonalDetails) {
			t.Error("IsStepValid(StepPersonalDetails) = false; want true")
		}
	})
}

func Test_Orchestrator_Next_invalidStepDoesNotAdvance(t *testing.T) {
	o := NewOrchestrator(nil)

	if err := o.Next(); err == nil {
		t.Error("Next() from an empty personal details step: want error")
	}
	if o.ActiveStep() != StepPersonalDetails {
		t.Errorf("ActiveStep() = %v; want %v", o.ActiveStep(), StepPersonalDetails)
	}
}

func Test_Orchestrator_Next_clampsAtLastStep(t *testing.T) {
	o := NewOrchestrator(nil)
	o.active = LastStep
	o.UpdateState(Patch{
		DeclarationSignature: strPtr("Jane Doe"),
		DeclarationDate:      strPtr("2024-08-01"),
	})

	for i := 0; i < 3; i++ {
		if err := o.Next(); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}
	if o.ActiveStep() != LastStep {
		t.Errorf("ActiveStep() = %v; want clamped at %v", o.ActiveStep(), LastStep)
	}
}

func Test_Orchestrator_Back_flooredAtFirstStep(t *testing.T) {
	o := NewOrchestrator(nil)
	for i := 0; i < 3; i++ {
		o.Back()
	}
	if o.ActiveStep() != StepPersonalDetails {
		t.Errorf("ActiveStep() = %v; want floored at %v", o.ActiveStep(), StepPersonalDetails)
	}
}

func Test_Orchestrator_endToEnd(t *testing.T) {
	o := NewOrchestrator(nil)

	o.UpdateState(personalDetailsPatch())
	if err := o.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if o.ActiveStep() != StepStudyDetails {
		t.Fatalf("ActiveStep() = %v; want %v", o.ActiveStep(), StepStudyDetails)
	}

	// advancing again without the study fields must not move
	if err := o.Next(); err == nil {
		t.Error("Next() without study fields: want error")
	}
	if o.ActiveStep() != StepStudyDetails {
		t.Errorf("ActiveStep() = %v; want still %v", o.ActiveStep(), StepStudyDetails)
	}
}

func Test_Orchestrator_prefilled(t *testing.T) {
	initial := &Draft{Name: "Jane", Surname: "Doe"}
	o := NewOrchestrator(initial)

	d := o.Draft()
	if d.Name != "Jane" || d.Surname != "Doe" {
		t.Errorf("Draft() = %+v; want pre-filled values", d)
	}
	if d.FixedProperties == nil || d.Vehicles == nil || d.Investments == nil || d.Dependents == nil {
		t.Error("nested collections must default to empty sequences")
	}
}
