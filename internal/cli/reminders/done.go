package reminders

import (
	"fmt"

	"github.com/jspargo/remind/internal/cli"
)

type DoneCmd struct {
	ID     int64  `arg:"" help:"Reminder ID."`
	Reopen bool   `help:"Mark the reminder as not completed instead."`
	Reason string `help:"Dismissal reason to record."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	rem, err := ctx.Store.GetReminder(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find reminder: %w", err)
	}
	if rem == nil {
		fmt.Printf("No reminder with ID %d\n", c.ID)
		return nil
	}

	if err := ctx.Engine.MarkCompleted(c.ID, !c.Reopen, c.Reason); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	if c.Reopen {
		fmt.Printf("Reopened reminder %d: %s\n", rem.ID, rem.Title)
		return nil
	}

	fmt.Printf("Completed reminder %d: %s\n", rem.ID, rem.Title)
	if rem.IsRecurring() {
		fmt.Printf("Next occurrence scheduled (%s)\n", rem.FormatRecurrence())
	}
	return nil
}
