package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"contacts-admin/internal/models"
)

// TemplateFileName is the download name of the import template.
const TemplateFileName = "kisi_import_sablonu.xlsx"

// ExportHeaders is the column order of the contact export.
var ExportHeaders = []string{
	"Sıra No", "Ad", "Soyad", "TC Kimlik No", "Kategori", "Telefon 1", "Telefon 2",
	"Ünvan", "Mahalle", "İlçe", "Adres", "E-posta", "Doğum Tarihi", "Cinsiyet",
	"Notlar", "Kayıt Tarihi",
}

var exportColumnWidths = []float64{8, 15, 15, 15, 20, 15, 15, 20, 20, 15, 40, 25, 15, 10, 30, 15}

var templateSampleRows = [][]interface{}{
	{"Ahmet", "Yılmaz", "12345678901", "05321234567", "", "ahmet@example.com", "Muhtar",
		"Cumhuriyet", "Merkez", "Atatürk Cad. No:1", "15.03.1980", "Erkek", "Örnek kayıt"},
	{"Ayşe", "Demir", "10987654321", "05339876543", "03122223344", "ayse@example.com", "Öğretmen",
		"Yenimahalle", "Çankaya", "İnönü Sok. No:5", "22.08.1985", "Kadın", ""},
}

type ExcelService struct {
	dateLayout string
}

func NewExcelService(dateLayout string) *ExcelService {
	if dateLayout == "" {
		dateLayout = "02.01.2006"
	}
	return &ExcelService{dateLayout: dateLayout}
}

// ReadRows parses the first sheet of an xlsx workbook. The first row is the
// header; fully blank data rows are skipped but keep their row numbers.
func (s *ExcelService) ReadRows(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	var result []RawRow
	for i := 1; i < len(rows); i++ {
		raw := RawRow{Number: i + 1}
		for col, h := range header {
			if h == "" {
				continue
			}
			raw.Cells = append(raw.Cells, RawCell{Header: h, Value: getCellValue(rows[i], col)})
		}
		if raw.IsBlank() {
			continue
		}
		result = append(result, raw)
	}

	return result, nil
}

// BuildExportRows projects contacts onto the export columns.
func (s *ExcelService) BuildExportRows(contacts []models.Contact) []models.ExportRow {
	rows := make([]models.ExportRow, 0, len(contacts))
	for i, c := range contacts {
		rows = append(rows, models.ExportRow{
			No:           i + 1,
			Name:         c.Name,
			Surname:      c.Surname,
			TCNumber:     c.TCNumber,
			CategoryName: c.CategoryName,
			Phone1:       c.Phone1,
			Phone2:       c.Phone2,
			Title:        c.Title,
			Neighborhood: c.Neighborhood,
			District:     c.District,
			Address:      c.Address,
			Email:        c.Email,
			BirthDate:    s.formatDateString(c.BirthDate),
			GenderLabel:  genderLabel(c.Gender),
			Notes:        c.Notes,
			CreatedAt:    s.formatTime(c.CreatedAt),
		})
	}
	return rows
}

// ExportContacts serializes contacts into a single-sheet workbook.
func (s *ExcelService) ExportContacts(contacts []models.Contact) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Kişiler"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}

	if err := writeHeader(f, sheetName, ExportHeaders); err != nil {
		return nil, err
	}

	for i, row := range s.BuildExportRows(contacts) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := row.Values()
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for i, width := range exportColumnWidths {
		col := getColumnName(i)
		f.SetColWidth(sheetName, col, col, width)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return writeBuffer(f)
}

// GenerateContactTemplate builds the import template: the primary header of
// every field followed by two sample rows.
func (s *ExcelService) GenerateContactTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Kişiler"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}

	// category_id is fixed at import time, so the template leaves it out.
	headers := templateHeaders()
	if err := writeHeader(f, sheetName, headers); err != nil {
		return nil, err
	}

	for rowIdx, rowData := range templateSampleRows {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		values := rowData
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	for i := range headers {
		col := getColumnName(i)
		f.SetColWidth(sheetName, col, col, 18)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return writeBuffer(f)
}

// ExportImportSessions writes the import history workbook.
func (s *ExcelService) ExportImportSessions(sessions []models.ImportSession) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import Sessions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}

	headers := []string{
		"ID", "Session Code", "Filename", "Total Rows", "Succeeded", "Failed",
		"Status", "Error Message", "Created At", "Updated At",
	}
	if err := writeHeader(f, sheetName, headers); err != nil {
		return nil, err
	}

	statusFills := map[string]string{
		models.ImportStatusCompleted:  "#D4EDDA",
		models.ImportStatusFailed:     "#F8D7DA",
		models.ImportStatusProcessing: "#FFF3CD",
	}
	statusStyles := make(map[string]int, len(statusFills))
	for status, color := range statusFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		statusStyles[status] = style
	}

	counts := make(map[string]int)
	for i, session := range sessions {
		row := i + 2
		values := []interface{}{
			session.ID, session.SessionCode, session.Filename, session.TotalRows,
			session.Succeeded, session.FailedRows, session.Status, session.ErrorMessage,
			s.formatTime(session.CreatedAt), s.formatTime(session.UpdatedAt),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
		if style, ok := statusStyles[session.Status]; ok {
			statusCell := fmt.Sprintf("G%d", row)
			f.SetCellStyle(sheetName, statusCell, statusCell, style)
		}
		counts[session.Status]++
	}

	f.SetColWidth(sheetName, "A", "J", 15)
	f.SetColWidth(sheetName, "B", "B", 22)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "H", "H", 40)
	f.SetColWidth(sheetName, "I", "J", 20)

	if len(sessions) > 0 {
		summaryRow := len(sessions) + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Summary:")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("Total Sessions: %d", len(sessions)))
		row := summaryRow + 1
		for _, status := range []string{models.ImportStatusUploaded, models.ImportStatusProcessing, models.ImportStatusCompleted, models.ImportStatusFailed} {
			if counts[status] == 0 {
				continue
			}
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%s: %d", status, counts[status]))
			row++
		}
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return writeBuffer(f)
}

// ExportFileName returns "<prefix>_<date>.xlsx" with path separators in the
// formatted date replaced by "-".
func ExportFileName(prefix, layout string, now time.Time) string {
	date := strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(now.Format(layout))
	return fmt.Sprintf("%s_%s.xlsx", prefix, date)
}

func templateHeaders() []string {
	var headers []string
	for _, h := range PrimaryHeaders(FieldAliases) {
		if h == "Kategori ID" {
			continue
		}
		headers = append(headers, h)
	}
	return headers
}

func writeHeader(f *excelize.File, sheetName string, headers []string) error {
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)
}

func writeBuffer(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// genderLabel accepts both the stored form ("male") and the canonical import
// form ("ERKEK"), since API backends return what they were sent.
func genderLabel(gender string) string {
	switch NormalizeGender(gender) {
	case models.GenderMale:
		return "Erkek"
	case models.GenderFemale:
		return "Kadın"
	default:
		return ""
	}
}

func (s *ExcelService) formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(s.dateLayout)
}

// formatDateString reformats stored date text; unparseable values pass through.
func (s *ExcelService) formatDateString(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	t, err := parseDate(value)
	if err != nil {
		return value
	}
	return t.Format(s.dateLayout)
}

// Helper functions
func getCellValue(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

func parseDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02.01.2006",
		"02/01/2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}

// IsFileError reports whether err is one of the file-level import failures.
func IsFileError(err error) bool {
	return errors.Is(err, ErrUnsupportedFile) || errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrEmptyWorkbook) || errors.Is(err, ErrUnreadableWorkbook)
}
