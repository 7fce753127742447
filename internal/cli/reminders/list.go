package reminders

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jspargo/remind/internal/cli"
	"github.com/jspargo/remind/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type ListCmd struct {
	Completed bool   `help:"Show completed reminders instead of active ones."`
	Category  string `short:"c" help:"Filter by main category."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	var (
		items []models.Reminder
		err   error
	)
	switch {
	case c.Category != "":
		items, err = ctx.Store.GetByCategory(strings.ToUpper(c.Category))
	case c.Completed:
		items, err = ctx.Store.GetCompleted()
	default:
		items, err = ctx.Store.GetActive()
	}
	if err != nil {
		return fmt.Errorf("failed to get reminders: %w", err)
	}

	if len(items) == 0 {
		fmt.Println("No reminders found")
		return nil
	}

	label := "Active reminders"
	if c.Completed {
		label = "Completed reminders"
	}
	if c.Category != "" {
		label = fmt.Sprintf("Reminders in %s", strings.ToUpper(c.Category))
	}
	fmt.Println(headerStyle.Render(label))

	for _, rem := range items {
		fmt.Println(RenderLine(rem, time.Now()))
	}
	return nil
}

// RenderLine formats one reminder for list and watch output.
func RenderLine(rem models.Reminder, now time.Time) string {
	due := cli.FormatDateTime(rem.DateTime)

	category := rem.MainCategory
	if rem.SubCategory != nil {
		category = fmt.Sprintf("%s/%s", category, *rem.SubCategory)
	}

	meta := fmt.Sprintf("due %s, %s, %s", due, rem.FormatRecurrence(), category)
	if rem.SnoozeCount > 0 {
		meta += fmt.Sprintf(", snoozed x%d", rem.SnoozeCount)
	}

	line := fmt.Sprintf("  %4d  %s  %s", rem.ID, rem.Title, metaStyle.Render("("+meta+")"))

	if rem.IsCompleted {
		reason := ""
		if rem.DismissalReason != nil {
			reason = " " + metaStyle.Render("["+*rem.DismissalReason+"]")
		}
		return completedStyle.Render(fmt.Sprintf("  %4d  %s", rem.ID, rem.Title)) + reason
	}
	if rem.DueTime().Before(now) {
		return overdueStyle.Render(fmt.Sprintf("  %4d  %s", rem.ID, rem.Title)) + "  " + metaStyle.Render("("+meta+")")
	}
	return line
}
