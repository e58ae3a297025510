package models

import "time"

// DefaultImportCategoryID is the category every spreadsheet-imported contact
// lands in. Rows cannot choose their own category.
const DefaultImportCategoryID = 1

// DefaultImportCategoryName names the category seeded for imports on a new
// database.
const DefaultImportCategoryName = "Genel"

const (
	GenderMale   = "ERKEK"
	GenderFemale = "KADIN"
)

// Contact is a stored contact as returned by the listing backends.
type Contact struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Surname      string    `db:"surname" json:"surname"`
	TCNumber     string    `db:"tc_number" json:"tc_number"`
	Phone1       string    `db:"phone1" json:"phone1"`
	Phone2       string    `db:"phone2" json:"phone2"`
	Email        string    `db:"email" json:"email"`
	Title        string    `db:"title" json:"title"`
	Neighborhood string    `db:"neighborhood" json:"neighborhood"`
	District     string    `db:"district" json:"district"`
	Address      string    `db:"address" json:"address"`
	BirthDate    string    `db:"birth_date" json:"birth_date"`
	Gender       string    `db:"gender" json:"gender"` // male, female or empty
	Notes        string    `db:"notes" json:"notes"`
	CategoryID   int       `db:"category_id" json:"category_id"`
	CategoryName string    `db:"category_name" json:"category_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ContactRecord is the canonical, validated shape handed to a creation backend.
type ContactRecord struct {
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	TCNumber     string `json:"tc_number"`
	Phone1       string `json:"phone1"`
	Phone2       string `json:"phone2"`
	Email        string `json:"email"`
	Title        string `json:"title"`
	Neighborhood string `json:"neighborhood"`
	District     string `json:"district"`
	Address      string `json:"address"`
	BirthDate    string `json:"birth_date"`
	Gender       string `json:"gender"` // ERKEK, KADIN or empty
	Notes        string `json:"notes"`
	CategoryID   int    `json:"category_id"`
}

// ContactRequest is the body accepted by the single-contact create endpoint.
type ContactRequest struct {
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	TCNumber     string `json:"tc_number"`
	Phone1       string `json:"phone1"`
	Phone2       string `json:"phone2"`
	Email        string `json:"email"`
	Title        string `json:"title"`
	Neighborhood string `json:"neighborhood"`
	District     string `json:"district"`
	Address      string `json:"address"`
	BirthDate    string `json:"birth_date"`
	Gender       string `json:"gender"`
	Notes        string `json:"notes"`
	CategoryID   int    `json:"category_id"`
}

// CreateResult is the structured answer of a creation backend.
type CreateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      int    `json:"id,omitempty"`
}

// ContactFilter narrows listing and export queries.
type ContactFilter struct {
	Search     string `json:"search,omitempty"`
	CategoryID int    `json:"category_id,omitempty"`
}

// ExportRow is the 16-column projection written by the contact export.
type ExportRow struct {
	No           int
	Name         string
	Surname      string
	TCNumber     string
	CategoryName string
	Phone1       string
	Phone2       string
	Title        string
	Neighborhood string
	District     string
	Address      string
	Email        string
	BirthDate    string
	GenderLabel  string
	Notes        string
	CreatedAt    string
}

// Values returns the row cells in column order.
func (r ExportRow) Values() []interface{} {
	return []interface{}{
		r.No, r.Name, r.Surname, r.TCNumber, r.CategoryName, r.Phone1, r.Phone2,
		r.Title, r.Neighborhood, r.District, r.Address, r.Email, r.BirthDate,
		r.GenderLabel, r.Notes, r.CreatedAt,
	}
}

// StoredGender converts a canonical import gender into the value persisted by
// the contacts table.
func StoredGender(canonical string) string {
	switch canonical {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return ""
	}
}
