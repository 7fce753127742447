package reminders

import (
	"fmt"

	"github.com/jspargo/remind/internal/cli"
)

type ClearCompletedCmd struct{}

func (c *ClearCompletedCmd) Run(ctx *cli.Context) error {
	count, err := ctx.Engine.ClearAllCompleted()
	if err != nil {
		return fmt.Errorf("failed to clear completed reminders: %w", err)
	}

	if count == 0 {
		fmt.Println("No completed reminders to clear")
		return nil
	}
	fmt.Printf("Cleared %d completed reminder(s)\n", count)
	return nil
}
