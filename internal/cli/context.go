package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jspargo/remind/internal/config"
	"github.com/jspargo/remind/internal/constants"
	"github.com/jspargo/remind/internal/engine"
	"github.com/jspargo/remind/internal/storage"
)

type Context struct {
	Store      storage.Provider
	Engine     *engine.Engine
	Categories *engine.CategoryService
	Config     *config.Config
}

// ParseDateTime parses a due time from the command line, accepting
// "YYYY-MM-DD HH:MM" or a bare "YYYY-MM-DD" (which lands at 09:00), in local
// time. Returns epoch milliseconds.
func ParseDateTime(s string) (int64, error) {
	s = strings.TrimSpace(s)

	if t, err := time.ParseInLocation(constants.DateTimeFormat, s, time.Local); err == nil {
		return t.UnixMilli(), nil
	}

	if t, err := time.ParseInLocation(constants.DateFormat, s, time.Local); err == nil {
		return t.Add(9 * time.Hour).UnixMilli(), nil
	}

	return 0, fmt.Errorf("invalid date/time %q (expected %q or %q)", s, constants.DateTimeFormat, constants.DateFormat)
}

// FormatDateTime renders an epoch-millisecond timestamp for display.
func FormatDateTime(millis int64) string {
	return time.UnixMilli(millis).Local().Format(constants.DateTimeFormat)
}

// ResolveCategory validates a main/sub category pair against the category
// store. An empty main falls back to the default. The sub, when given, must
// exist and belong to the main.
func (c *Context) ResolveCategory(main string, sub string) (string, *string, error) {
	if main == "" {
		main = constants.DefaultCategory
	}
	main = strings.ToUpper(main)

	mainCat, err := c.Categories.GetByName(main)
	if err != nil {
		return "", nil, err
	}
	if mainCat == nil || !mainCat.IsMainCategory {
		return "", nil, fmt.Errorf("unknown category: %s", main)
	}

	if sub == "" {
		return main, nil, nil
	}

	subCat, err := c.Categories.GetByName(sub)
	if err != nil {
		return "", nil, err
	}
	if subCat == nil || subCat.ParentCategoryID == nil || *subCat.ParentCategoryID != mainCat.ID {
		return "", nil, fmt.Errorf("unknown subcategory %s under %s", sub, main)
	}

	name := subCat.Name
	return main, &name, nil
}
