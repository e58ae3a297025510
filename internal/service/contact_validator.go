package service

import (
	"fmt"
	"strings"

	"contacts-admin/internal/models"
)

// ValidationOutcome is the result of validating one spreadsheet row: either a
// canonical record or the reason the row was rejected.
type ValidationOutcome struct {
	Row    int
	Record *models.ContactRecord
	Reason string
}

func (o ValidationOutcome) Valid() bool {
	return o.Record != nil
}

func validOutcome(row int, rec models.ContactRecord) ValidationOutcome {
	return ValidationOutcome{Row: row, Record: &rec}
}

func invalidOutcome(row int, reason string) ValidationOutcome {
	return ValidationOutcome{Row: row, Reason: reason}
}

// ContactValidator turns drafts into canonical contact records.
type ContactValidator struct {
	categoryID int
}

// NewContactValidator returns a validator that assigns categoryID to every
// record it accepts.
func NewContactValidator(categoryID int) *ContactValidator {
	if categoryID <= 0 {
		categoryID = models.DefaultImportCategoryID
	}
	return &ContactValidator{categoryID: categoryID}
}

// Validate checks the required fields and normalizes the rest. It never fails
// outright; rejected rows come back as an invalid outcome.
func (v *ContactValidator) Validate(draft ContactDraft, row int) ValidationOutcome {
	name := strings.TrimSpace(draft[FieldName])
	surname := strings.TrimSpace(draft[FieldSurname])
	if name == "" || surname == "" {
		return invalidOutcome(row, fmt.Sprintf("Row %d: name and surname are required", row))
	}

	return validOutcome(row, models.ContactRecord{
		Name:         name,
		Surname:      surname,
		TCNumber:     strings.TrimSpace(draft[FieldTCNumber]),
		Phone1:       strings.TrimSpace(draft[FieldPhone1]),
		Phone2:       strings.TrimSpace(draft[FieldPhone2]),
		Email:        strings.TrimSpace(draft[FieldEmail]),
		Title:        strings.TrimSpace(draft[FieldTitle]),
		Neighborhood: strings.TrimSpace(draft[FieldNeighborhood]),
		District:     strings.TrimSpace(draft[FieldDistrict]),
		Address:      strings.TrimSpace(draft[FieldAddress]),
		BirthDate:    strings.TrimSpace(draft[FieldBirthDate]),
		Gender:       NormalizeGender(draft[FieldGender]),
		Notes:        strings.TrimSpace(draft[FieldNotes]),
		CategoryID:   v.categoryID,
	})
}

// NormalizeGender maps the accepted gender spellings onto ERKEK or KADIN.
// Anything unrecognized becomes "".
func NormalizeGender(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ERKEK", "MALE", "E", "M":
		return models.GenderMale
	case "KADIN", "FEMALE", "K", "F":
		return models.GenderFemale
	default:
		return ""
	}
}

// FromRequest validates a single-contact create request. A category set on
// the request replaces the default.
func (v *ContactValidator) FromRequest(req models.ContactRequest) (models.ContactRecord, error) {
	outcome := v.Validate(ContactDraft{
		FieldName:         req.Name,
		FieldSurname:      req.Surname,
		FieldTCNumber:     req.TCNumber,
		FieldPhone1:       req.Phone1,
		FieldPhone2:       req.Phone2,
		FieldEmail:        req.Email,
		FieldTitle:        req.Title,
		FieldNeighborhood: req.Neighborhood,
		FieldDistrict:     req.District,
		FieldAddress:      req.Address,
		FieldBirthDate:    req.BirthDate,
		FieldGender:       req.Gender,
		FieldNotes:        req.Notes,
	}, 0)
	if !outcome.Valid() {
		return models.ContactRecord{}, ErrNameRequired
	}

	rec := *outcome.Record
	if req.CategoryID > 0 {
		rec.CategoryID = req.CategoryID
	}
	return rec, nil
}
