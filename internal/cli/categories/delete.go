package categories

import (
	"fmt"
	"strings"

	"github.com/jspargo/remind/internal/cli"
)

type DeleteCmd struct {
	Name  string `arg:"" help:"Category name."`
	Purge bool   `help:"Delete the category's reminders instead of moving them to the default category."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.Categories.GetByName(strings.ToUpper(c.Name))
	if err != nil {
		return fmt.Errorf("failed to find category: %w", err)
	}
	if cat == nil {
		fmt.Printf("No category named %s\n", strings.ToUpper(c.Name))
		return nil
	}
	if cat.IsPreset {
		fmt.Printf("Category %s is built in and cannot be deleted\n", cat.Name)
		return nil
	}

	if err := ctx.Categories.Delete(*cat, !c.Purge); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if c.Purge {
		fmt.Printf("Deleted category %s and its reminders\n", cat.Name)
	} else {
		fmt.Printf("Deleted category %s; its reminders were moved to the default category\n", cat.Name)
	}
	return nil
}
