package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"contacts-admin/internal/models"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name, COALESCE(description, '') AS description, created_at, updated_at
	          FROM categories ORDER BY name`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int) (*models.Category, error) {
	var category models.Category
	query := `SELECT id, name, COALESCE(description, '') AS description, created_at, updated_at
	          FROM categories WHERE id = ? LIMIT 1`
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (name, description) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, query, category.Name, category.Description)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	category.ID = int(id)
	return nil
}
