package categories

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jspargo/remind/internal/cli"
)

var (
	presetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	nameStyle = lipgloss.NewStyle().
			Bold(true)
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	mains, err := ctx.Categories.ListMain()
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}

	if len(mains) == 0 {
		fmt.Println("No categories found")
		return nil
	}

	for _, main := range mains {
		label := nameStyle.Render(main.Name)
		if main.IsPreset {
			label += " " + presetStyle.Render("(preset)")
		}
		fmt.Println(label)

		subs, err := ctx.Categories.ListSubcategories(main.ID)
		if err != nil {
			return fmt.Errorf("failed to get subcategories: %w", err)
		}
		for _, sub := range subs {
			fmt.Printf("  %s\n", sub.Name)
		}
	}
	return nil
}
