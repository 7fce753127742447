package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jspargo/remind/internal/models"
)

const categoryColumns = `id, name, is_main_category, parent_category_id, is_preset, color_hex, icon_name`

func scanCategory(row interface{ Scan(...any) error }) (models.Category, error) {
	var c models.Category
	var parentID sql.NullInt64

	err := row.Scan(&c.ID, &c.Name, &c.IsMainCategory, &parentID, &c.IsPreset, &c.ColorHex, &c.IconName)
	if err != nil {
		return models.Category{}, err
	}

	if parentID.Valid {
		c.ParentCategoryID = &parentID.Int64
	}
	return c, nil
}

func collectCategories(rows *sql.Rows) ([]models.Category, error) {
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (s *Store) InsertCategory(c models.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	result, err := s.db.Exec(`
		INSERT INTO categories (name, is_main_category, parent_category_id, is_preset, color_hex, icon_name)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.IsMainCategory, c.ParentCategoryID, c.IsPreset, c.ColorHex, c.IconName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted category id: %w", err)
	}

	s.changes.Notify()
	return id, nil
}

func (s *Store) UpdateCategory(c models.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		UPDATE categories SET name = ?, is_main_category = ?, parent_category_id = ?, color_hex = ?, icon_name = ?
		WHERE id = ? AND is_preset = 0`,
		c.Name, c.IsMainCategory, c.ParentCategoryID, c.ColorHex, c.IconName, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) DeleteCategory(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) GetCategory(id int64) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (s *Store) GetCategoryByName(name string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE name = ?`, name)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return &c, nil
}

func (s *Store) GetMainCategories() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + ` FROM categories
		WHERE is_main_category = 1 ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query main categories: %w", err)
	}
	return collectCategories(rows)
}

func (s *Store) GetSubcategories(parentID int64) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+` FROM categories
		WHERE parent_category_id = ? ORDER BY name ASC`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subcategories: %w", err)
	}
	return collectCategories(rows)
}

func (s *Store) GetAllCategories() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	return collectCategories(rows)
}
