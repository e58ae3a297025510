package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"contacts-admin/internal/models"
)

// ContactRepository stores contacts locally. It serves both as the import
// creator and as the export source when the database backend is selected.
type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactSelect = `
	SELECT c.id,
	       c.name,
	       c.surname,
	       COALESCE(c.tc_number, '') AS tc_number,
	       COALESCE(c.phone1, '') AS phone1,
	       COALESCE(c.phone2, '') AS phone2,
	       COALESCE(c.email, '') AS email,
	       COALESCE(c.title, '') AS title,
	       COALESCE(c.neighborhood, '') AS neighborhood,
	       COALESCE(c.district, '') AS district,
	       COALESCE(c.address, '') AS address,
	       COALESCE(c.birth_date, '') AS birth_date,
	       COALESCE(c.gender, '') AS gender,
	       COALESCE(c.notes, '') AS notes,
	       c.category_id,
	       COALESCE(cat.name, '') AS category_name,
	       c.created_at,
	       c.updated_at
	FROM contacts c
	LEFT JOIN categories cat ON cat.id = c.category_id`

// Create inserts record. An unknown category is reported as a rejected
// record, not as an error.
func (r *ContactRepository) Create(ctx context.Context, record models.ContactRecord) (models.CreateResult, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM categories WHERE id = ?", record.CategoryID)
	if err != nil {
		return models.CreateResult{}, fmt.Errorf("failed to check category: %w", err)
	}
	if exists == 0 {
		return models.CreateResult{Success: false, Message: fmt.Sprintf("category %d does not exist", record.CategoryID)}, nil
	}

	query := `INSERT INTO contacts (name, surname, tc_number, phone1, phone2, email, title,
	          neighborhood, district, address, birth_date, gender, notes, category_id)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		record.Name, record.Surname, record.TCNumber, record.Phone1, record.Phone2,
		record.Email, record.Title, record.Neighborhood, record.District, record.Address,
		record.BirthDate, models.StoredGender(record.Gender), record.Notes, record.CategoryID,
	)
	if err != nil {
		return models.CreateResult{}, err
	}

	id, _ := result.LastInsertId()
	return models.CreateResult{Success: true, ID: int(id)}, nil
}

// FetchAll returns every contact matching filter, oldest first.
func (r *ContactRepository) FetchAll(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error) {
	whereClause, args := contactWhere(filter)
	contacts := []models.Contact{}
	query := contactSelect + whereClause + " ORDER BY c.id"
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepository) FindAll(ctx context.Context, limit, offset int, filter models.ContactFilter) ([]models.Contact, int, error) {
	whereClause, args := contactWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM contacts c" + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	contacts := []models.Contact{}
	query := contactSelect + whereClause + " ORDER BY c.id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// FindByID returns (nil, nil) when no contact has the id.
func (r *ContactRepository) FindByID(ctx context.Context, id int) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.GetContext(ctx, &contact, contactSelect+" WHERE c.id = ? LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func contactWhere(filter models.ContactFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions = append(conditions,
			"(c.name LIKE ? OR c.surname LIKE ? OR c.tc_number LIKE ? OR c.phone1 LIKE ? OR c.email LIKE ?)")
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}
	if filter.CategoryID > 0 {
		conditions = append(conditions, "c.category_id = ?")
		args = append(args, filter.CategoryID)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
