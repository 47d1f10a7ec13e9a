package application

import (
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core"
)

// DocumentField names one of the single-slot supporting document fields.
type DocumentField string

const (
	DocTertiaryResults DocumentField = "tertiarySubjectsAndResultsFile"
	DocGrade12Results  DocumentField = "grade12SubjectsAndResultsFile"
	DocGrade11Results  DocumentField = "grade11SubjectsAndResultsFile"
)

var DocumentFields = []DocumentField{DocTertiaryResults, DocGrade12Results, DocGrade11Results}

func (f DocumentField) isKnown() bool {
	for _, known := range DocumentFields {
		if f == known {
			return true
		}
	}
	return false
}

var errUnknownDocumentField = errors.New("unknown document field")

// AttachDocument validates the upload and stores it in the field's slot,
// replacing any prior selection; a field never holds more than one file.
func (d *Draft) AttachDocument(field DocumentField, up core.Upload) error {
	if !field.isKnown() {
		return core.NewValidationError(errUnknownDocumentField,
			core.FieldError{Field: string(field), Error: errUnknownDocumentField.Error()})
	}
	if err := core.ValidateUpload(&up, string(field)); err != nil {
		return err
	}
	if d.Documents == nil {
		d.Documents = make(map[DocumentField]core.Upload)
	}
	d.Documents[field] = up
	return nil
}

// RemoveDocument clears the field's slot.
func (d *Draft) RemoveDocument(field DocumentField) {
	delete(d.Documents, field)
}

// Document returns the file held by the field's slot, if any.
func (d *Draft) Document(field DocumentField) (core.Upload, bool) {
	up, ok := d.Documents[field]
	return up, ok
}
