package commands

import (
	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Use:   "mv <source> <destination>",
	Short: "Move or rename a file or directory",
	Long: `Move a file or directory to a new path.

Moves within a shard are atomic. Moves across user shards are emulated
as copy-then-delete and are not atomic.

Examples:
  # Rename a file
  cfs mv /Users/alice/a.txt /Users/alice/b.txt

  # Move a directory across shards
  cfs mv /Users/alice/docs /Users/bob/docs`,
	Args: cobra.ExactArgs(2),
	RunE: runMv,
}

func runMv(cmd *cobra.Command, args []string) error {
	fs, err := openFS()
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	return fs.Rename(cmd.Context(), args[0], args[1])
}
