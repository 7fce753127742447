package models

import (
	"fmt"
	"regexp"
	"strings"
)

var colorHexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category groups reminders by area of life. Preset categories ship with the
// application and cannot be edited or deleted.
type Category struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	IsMainCategory   bool    `json:"is_main_category"`
	ParentCategoryID *int64  `json:"parent_category_id,omitempty"`
	IsPreset         bool    `json:"is_preset"`
	ColorHex         string  `json:"color_hex"`
	IconName         string  `json:"icon_name"`
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name cannot be empty")
	}

	if !c.IsMainCategory && c.ParentCategoryID == nil {
		return fmt.Errorf("subcategory must reference a parent category")
	}

	if c.IsMainCategory && c.ParentCategoryID != nil {
		return fmt.Errorf("main category cannot have a parent")
	}

	if c.ColorHex != "" && !colorHexPattern.MatchString(c.ColorHex) {
		return fmt.Errorf("invalid color hex: %s (expected #RRGGBB)", c.ColorHex)
	}

	return nil
}
