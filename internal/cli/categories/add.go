package categories

import (
	"fmt"
	"strings"

	"github.com/jspargo/remind/internal/cli"
	"github.com/jspargo/remind/internal/models"
)

type AddCmd struct {
	Name   string `arg:"" help:"Category name."`
	Parent string `short:"p" help:"Parent category; makes this a subcategory."`
	Color  string `help:"Display color (#RRGGBB)."`
	Icon   string `help:"Icon name."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	cat := models.Category{
		Name:           strings.ToUpper(c.Name),
		IsMainCategory: c.Parent == "",
		ColorHex:       c.Color,
		IconName:       c.Icon,
	}

	if c.Parent != "" {
		parent, err := ctx.Categories.GetByName(strings.ToUpper(c.Parent))
		if err != nil {
			return err
		}
		if parent == nil || !parent.IsMainCategory {
			return fmt.Errorf("unknown parent category: %s", c.Parent)
		}
		cat.ParentCategoryID = &parent.ID
	}

	created, err := ctx.Categories.Create(cat)
	if err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}

	if created.IsMainCategory {
		fmt.Printf("Added category: %s\n", created.Name)
	} else {
		fmt.Printf("Added subcategory %s under %s\n", created.Name, strings.ToUpper(c.Parent))
	}
	return nil
}
