package service

import "strings"

// Canonical contact fields produced by the column mapper.
const (
	FieldName         = "name"
	FieldSurname      = "surname"
	FieldTCNumber     = "tc_number"
	FieldPhone1       = "phone1"
	FieldPhone2       = "phone2"
	FieldEmail        = "email"
	FieldTitle        = "title"
	FieldNeighborhood = "neighborhood"
	FieldDistrict     = "district"
	FieldAddress      = "address"
	FieldBirthDate    = "birth_date"
	FieldGender       = "gender"
	FieldNotes        = "notes"
	FieldCategoryID   = "category_id"
)

// FieldAlias lists the spreadsheet headers accepted for one canonical field,
// in priority order. The first alias is the spelling used by the template.
type FieldAlias struct {
	Field   string
	Aliases []string
}

// FieldAliases is the header table used for contact imports.
var FieldAliases = []FieldAlias{
	{Field: FieldName, Aliases: []string{"Ad", "ad", "AD", "İsim", "Isim", "Name", "name"}},
	{Field: FieldSurname, Aliases: []string{"Soyad", "soyad", "SOYAD", "Soyisim", "Surname", "surname"}},
	{Field: FieldTCNumber, Aliases: []string{"TC Kimlik No", "TC No", "TC", "tc_number", "TC Number"}},
	{Field: FieldPhone1, Aliases: []string{"Telefon 1", "Telefon", "telefon", "phone1", "Phone", "Phone 1"}},
	{Field: FieldPhone2, Aliases: []string{"Telefon 2", "phone2", "Phone 2"}},
	{Field: FieldEmail, Aliases: []string{"E-posta", "Eposta", "E-mail", "Email", "email"}},
	{Field: FieldTitle, Aliases: []string{"Ünvan", "Unvan", "title", "Title"}},
	{Field: FieldNeighborhood, Aliases: []string{"Mahalle", "mahalle", "neighborhood", "Neighborhood"}},
	{Field: FieldDistrict, Aliases: []string{"İlçe", "Ilce", "ilçe", "district", "District"}},
	{Field: FieldAddress, Aliases: []string{"Adres", "adres", "address", "Address"}},
	{Field: FieldBirthDate, Aliases: []string{"Doğum Tarihi", "Dogum Tarihi", "birth_date", "Birth Date"}},
	{Field: FieldGender, Aliases: []string{"Cinsiyet", "cinsiyet", "gender", "Gender"}},
	{Field: FieldNotes, Aliases: []string{"Notlar", "Not", "notes", "Notes"}},
	{Field: FieldCategoryID, Aliases: []string{"Kategori ID", "category_id"}},
}

// PrimaryHeaders returns the first alias of every field, in table order.
func PrimaryHeaders(aliases []FieldAlias) []string {
	headers := make([]string, 0, len(aliases))
	for _, fa := range aliases {
		if len(fa.Aliases) > 0 {
			headers = append(headers, fa.Aliases[0])
		}
	}
	return headers
}

// RawCell is one header/value pair of a parsed spreadsheet row.
type RawCell struct {
	Header string
	Value  string
}

// RawRow is a parsed spreadsheet row keyed by header, in sheet column order.
// Number is the row number a spreadsheet viewer shows (header row = 1).
type RawRow struct {
	Number int
	Cells  []RawCell
}

// Lookup returns the first non-blank value under header. Blank cells count
// as absent, so a repeated header falls through to its next filled column.
func (r RawRow) Lookup(header string) (string, bool) {
	for _, cell := range r.Cells {
		if cell.Header == header && cell.Value != "" {
			return cell.Value, true
		}
	}
	return "", false
}

// IsBlank reports whether every cell of the row is whitespace.
func (r RawRow) IsBlank() bool {
	for _, cell := range r.Cells {
		if strings.TrimSpace(cell.Value) != "" {
			return false
		}
	}
	return true
}

// ContactDraft maps canonical field names to the unvalidated cell text.
type ContactDraft map[string]string

// ColumnMapper renames raw spreadsheet rows onto canonical fields.
type ColumnMapper struct {
	aliases []FieldAlias
}

func NewColumnMapper(aliases []FieldAlias) *ColumnMapper {
	if aliases == nil {
		aliases = FieldAliases
	}
	return &ColumnMapper{aliases: aliases}
}

// Map resolves every canonical field from row: the first alias that is present
// wins, fields with no matching alias get "".
func (m *ColumnMapper) Map(row RawRow) ContactDraft {
	draft := make(ContactDraft, len(m.aliases))
	for _, fa := range m.aliases {
		draft[fa.Field] = ""
		for _, alias := range fa.Aliases {
			if value, ok := row.Lookup(alias); ok {
				draft[fa.Field] = value
				break
			}
		}
	}
	return draft
}
