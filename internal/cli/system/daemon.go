package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jspargo/remind/internal/alarm"
	"github.com/jspargo/remind/internal/cli"
	"github.com/jspargo/remind/internal/logger"
	"github.com/jspargo/remind/internal/notifier"
)

type DaemonCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

// Run polls for due alarms and delivers notifications until interrupted.
func (c *DaemonCmd) Run(ctx *cli.Context) error {
	var n alarm.Notifier = notifier.New()
	if c.DryRun || !ctx.Config.Notify.Enabled {
		n = stdoutNotifier{}
	}

	d := alarm.NewDispatcher(ctx.Store, ctx.Store, n, ctx.Config.PollInterval())

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Daemon started", "poll_interval", ctx.Config.PollInterval())
	fmt.Printf("remind daemon running (poll interval %s), Ctrl-C to stop\n", ctx.Config.PollInterval())

	err := d.Run(sigCtx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("Daemon stopped")
		return nil
	}
	return err
}

type stdoutNotifier struct{}

func (stdoutNotifier) Notify(text string) error {
	fmt.Printf("[notify] %s\n", text)
	return nil
}
