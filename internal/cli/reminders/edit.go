package reminders

import (
	"fmt"

	"github.com/jspargo/remind/internal/cli"
)

type EditCmd struct {
	ID       int64   `arg:"" help:"Reminder ID."`
	Title    *string `help:"New title."`
	Notes    *string `short:"n" help:"New notes."`
	At       *string `short:"t" help:"New due time (\"YYYY-MM-DD HH:MM\" or \"YYYY-MM-DD\")."`
	Category *string `short:"c" help:"New main category."`
	Sub      *string `help:"New subcategory."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	rem, err := ctx.Store.GetReminder(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find reminder: %w", err)
	}
	if rem == nil {
		fmt.Printf("No reminder with ID %d\n", c.ID)
		return nil
	}

	title := rem.Title
	if c.Title != nil {
		title = *c.Title
	}
	notes := rem.Notes
	if c.Notes != nil {
		notes = *c.Notes
	}

	dueAt := rem.DateTime
	if c.At != nil {
		dueAt, err = cli.ParseDateTime(*c.At)
		if err != nil {
			return err
		}
	}

	main := rem.MainCategory
	sub := rem.SubCategory
	if c.Category != nil || c.Sub != nil {
		mainArg := main
		if c.Category != nil {
			mainArg = *c.Category
		}
		subArg := ""
		if c.Sub != nil {
			subArg = *c.Sub
		} else if sub != nil {
			subArg = *sub
		}
		main, sub, err = ctx.ResolveCategory(mainArg, subArg)
		if err != nil {
			return err
		}
	}

	if err := ctx.Engine.Update(c.ID, title, notes, dueAt, main, sub); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	fmt.Printf("Updated reminder %d: %s\n", c.ID, title)
	return nil
}
