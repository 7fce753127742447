package engine

import (
	"fmt"

	"github.com/jspargo/remind/internal/constants"
	"github.com/jspargo/remind/internal/models"
	"github.com/jspargo/remind/internal/storage"
)

// CategoryService wraps category CRUD and the cascade that runs when a
// category is deleted. Reminder mutations go through the engine so alarm
// bookkeeping and observer events stay consistent.
type CategoryService struct {
	categories storage.CategoryStore
	reminders  storage.ReminderStore
	engine     *Engine
}

func NewCategoryService(categories storage.CategoryStore, reminders storage.ReminderStore, eng *Engine) *CategoryService {
	return &CategoryService{
		categories: categories,
		reminders:  reminders,
		engine:     eng,
	}
}

func (s *CategoryService) Create(cat models.Category) (models.Category, error) {
	if err := cat.Validate(); err != nil {
		return models.Category{}, err
	}

	existing, err := s.categories.GetCategoryByName(cat.Name)
	if err != nil {
		return models.Category{}, err
	}
	if existing != nil {
		return models.Category{}, fmt.Errorf("category %q already exists", cat.Name)
	}

	cat.IsPreset = false
	id, err := s.categories.InsertCategory(cat)
	if err != nil {
		return models.Category{}, err
	}
	cat.ID = id
	return cat, nil
}

func (s *CategoryService) Update(cat models.Category) error {
	if err := cat.Validate(); err != nil {
		return err
	}

	existing, err := s.categories.GetCategory(cat.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if existing.IsPreset {
		return fmt.Errorf("preset category %q cannot be edited", existing.Name)
	}

	return s.categories.UpdateCategory(cat)
}

func (s *CategoryService) Get(id int64) (*models.Category, error) {
	return s.categories.GetCategory(id)
}

func (s *CategoryService) GetByName(name string) (*models.Category, error) {
	return s.categories.GetCategoryByName(name)
}

func (s *CategoryService) ListMain() ([]models.Category, error) {
	return s.categories.GetMainCategories()
}

func (s *CategoryService) ListSubcategories(parentID int64) ([]models.Category, error) {
	return s.categories.GetSubcategories(parentID)
}

func (s *CategoryService) ListAll() ([]models.Category, error) {
	return s.categories.GetAllCategories()
}

// Delete removes a category and cascades over its reminders. When
// moveToUncategorized is true the reminders are reassigned to the default
// category; otherwise they are purged, with active ones going through the
// engine so their alarms are cancelled too. A preset category is left
// untouched without error; callers that need feedback check IsPreset first.
func (s *CategoryService) Delete(cat models.Category, moveToUncategorized bool) error {
	if cat.IsPreset {
		return nil
	}

	members, err := s.reminders.GetByCategory(cat.Name)
	if err != nil {
		return err
	}

	for _, rem := range members {
		if moveToUncategorized {
			if err := s.engine.Update(rem.ID, rem.Title, rem.Notes, rem.DateTime, constants.DefaultCategory, nil); err != nil {
				return err
			}
			continue
		}

		if rem.IsCompleted {
			if err := s.reminders.DeleteReminder(rem.ID); err != nil {
				return err
			}
			continue
		}
		if err := s.engine.Delete(rem); err != nil {
			return err
		}
	}

	if err := s.categories.DeleteCategory(cat.ID); err != nil {
		return err
	}

	s.engine.publish(func(o Observer) { o.CategoryDeleted(cat) })
	return nil
}
