package reminders

import (
	"fmt"

	"github.com/jspargo/remind/internal/cli"
	"github.com/jspargo/remind/internal/constants"
)

type SnoozeCmd struct {
	ID int64 `arg:"" help:"Reminder ID."`
}

func (c *SnoozeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Engine.Snooze(c.ID); err != nil {
		return fmt.Errorf("failed to snooze reminder: %w", err)
	}

	rem, err := ctx.Store.GetReminder(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find reminder: %w", err)
	}
	if rem == nil {
		fmt.Printf("No reminder with ID %d\n", c.ID)
		return nil
	}

	if rem.IsCompleted {
		fmt.Printf("Reminder %d hit the snooze limit (%d) and was auto-completed: %s\n",
			rem.ID, constants.MaxSnoozeCount, rem.Title)
		return nil
	}

	fmt.Printf("Snoozed reminder %d until %s (snooze %d of %d)\n",
		rem.ID, cli.FormatDateTime(rem.DateTime), rem.SnoozeCount, constants.MaxSnoozeCount-1)
	return nil
}
