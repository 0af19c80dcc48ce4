package probe

import (
	"fmt"
	"io"

	"github.com/watchpost/watchpost/internal/ui"
)

// PrintReport writes a one-shot report for a snapshot, in the style of a
// doctor run: one line per probe, a summary line, then the failing probes
// with the dashboard key that fixes each.
func PrintReport(w io.Writer, snap Snapshot) {
	fmt.Fprintln(w)
	for _, r := range snap.Results {
		icon := ui.RenderFailIcon()
		if r.OK {
			icon = ui.RenderPassIcon()
		}
		fmt.Fprintf(w, "  %s  %s", icon, r.Name)
		if r.Description != "" {
			fmt.Fprintf(w, "%s", ui.RenderMuted(" "+r.Description))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, ui.RenderSeparator())
	fmt.Fprintf(w, "%s %d passed  %s %d failed\n",
		ui.RenderPassIcon(), snap.Passing(),
		ui.RenderFailIcon(), snap.Total()-snap.Passing(),
	)

	if snap.AllOK() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.RenderPass(ui.IconPass+" All checks passed"))
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.RenderFail("FAILING"))
	i := 0
	for _, r := range snap.Results {
		if r.OK {
			continue
		}
		i++
		fmt.Fprintf(w, "  %s  %s %s\n", ui.RenderFailIcon(), ui.RenderFail(fmt.Sprintf("%d.", i)), r.Name)
		if r.FixKey != "" {
			hint := fmt.Sprintf("press %s in `watchpost watch`", r.FixKey)
			fmt.Fprintf(w, "        %s%s\n", ui.MutedStyle.Render(ui.TreeLast), hint)
		}
	}
}
