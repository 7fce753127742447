package reminders

import (
	"fmt"

	"github.com/jspargo/remind/internal/cli"
)

type DeleteCmd struct {
	ID        int64 `arg:"" help:"Reminder ID."`
	AllFuture bool  `help:"Also delete all future occurrences in the recurring group."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	rem, err := ctx.Store.GetReminder(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find reminder: %w", err)
	}
	if rem == nil {
		fmt.Printf("No reminder with ID %d\n", c.ID)
		return nil
	}

	if err := ctx.Engine.DeleteWithRecurrenceCheck(*rem, c.AllFuture); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	if c.AllFuture && rem.RecurringGroupID != nil {
		fmt.Printf("Deleted reminder %d and all future occurrences: %s\n", rem.ID, rem.Title)
	} else {
		fmt.Printf("Deleted reminder %d: %s\n", rem.ID, rem.Title)
	}
	return nil
}
