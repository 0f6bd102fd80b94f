package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// truncate shortens s to max runes with a trailing ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 3 || len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	return d.Round(100 * time.Millisecond).String()
}

// interactiveOutput reports whether the command writes to a real terminal,
// which gates progress rendering.
func interactiveOutput(cmd *cobra.Command) bool {
	out := cmd.OutOrStdout()
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
