package reminders

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jspargo/remind/internal/cli"
)

type WatchCmd struct {
	Completed bool `help:"Watch completed reminders instead of active ones."`
}

// Run streams the reminder list, reprinting it after every store change,
// until interrupted.
func (c *WatchCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watch := ctx.Store.WatchActive
	label := "Active reminders"
	if c.Completed {
		watch = ctx.Store.WatchCompleted
		label = "Completed reminders"
	}

	for items := range watch(sigCtx) {
		fmt.Print("\033[H\033[2J")
		fmt.Println(headerStyle.Render(label))
		if len(items) == 0 {
			fmt.Println("No reminders found")
			continue
		}
		now := time.Now()
		for _, rem := range items {
			fmt.Println(RenderLine(rem, now))
		}
	}
	return nil
}
