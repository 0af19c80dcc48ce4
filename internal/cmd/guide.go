package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/watchpost/watchpost/internal/ui"
)

//go:embed guide.md
var guideMarkdown string

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show the setup walkthrough",
	Args:  cobra.NoArgs,
	RunE:  runGuide,
}

func init() {
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		// Plain markdown for pipes and pagers.
		fmt.Print(guideMarkdown)
		return nil
	}

	width := 100
	if w, _, err := ui.Size(); err == nil && w < width {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("building renderer: %w", err)
	}
	out, err := r.Render(guideMarkdown)
	if err != nil {
		return fmt.Errorf("rendering guide: %w", err)
	}
	fmt.Print(out)
	return nil
}
