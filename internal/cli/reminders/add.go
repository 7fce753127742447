package reminders

import (
	"fmt"

	"github.com/jspargo/remind/internal/cli"
	"github.com/jspargo/remind/internal/models"
)

type AddCmd struct {
	Title      string `arg:"" help:"Reminder title."`
	At         string `short:"t" help:"Due time (\"YYYY-MM-DD HH:MM\" or \"YYYY-MM-DD\")." required:""`
	Notes      string `short:"n" help:"Additional notes."`
	Recurrence string `short:"r" help:"Recurrence type (one_time|hourly|daily|weekly|monthly|annual)." default:"one_time"`
	Interval   int    `short:"i" help:"Recurrence interval (every N units)." default:"1"`
	DayOfMonth int    `help:"Preferred day of month (1-31) for monthly recurrence."`
	Category   string `short:"c" help:"Main category."`
	Sub        string `help:"Subcategory."`
	Voice      bool   `help:"Enable voice announcement for this reminder."`
}

func (c *AddCmd) Validate() error {
	if c.Interval < 1 {
		return fmt.Errorf("interval must be at least 1")
	}
	if c.DayOfMonth != 0 && (c.DayOfMonth < 1 || c.DayOfMonth > 31) {
		return fmt.Errorf("day of month must be between 1 and 31")
	}
	return nil
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	dueAt, err := cli.ParseDateTime(c.At)
	if err != nil {
		return err
	}

	recType, err := models.ParseRecurrenceType(c.Recurrence)
	if err != nil {
		return err
	}

	main, sub, err := ctx.ResolveCategory(c.Category, c.Sub)
	if err != nil {
		return err
	}

	rem := models.Reminder{
		Title:              c.Title,
		Notes:              c.Notes,
		DateTime:           dueAt,
		RecurrenceType:     recType,
		RecurrenceInterval: c.Interval,
		MainCategory:       main,
		SubCategory:        sub,
		IsVoiceEnabled:     c.Voice,
	}
	if c.DayOfMonth != 0 {
		dom := c.DayOfMonth
		rem.RecurrenceDayOfMonth = &dom
	}

	created, err := ctx.Engine.Add(rem)
	if err != nil {
		return fmt.Errorf("failed to add reminder: %w", err)
	}

	fmt.Printf("Added reminder %d: %s (due %s, %s)\n",
		created.ID, created.Title, cli.FormatDateTime(created.DateTime), created.FormatRecurrence())
	return nil
}
