package commands

import (
	"github.com/janwilmake/cloudflare-fs/pkg/vfs"
	"github.com/spf13/cobra"
)

var (
	cpRecursive bool
	cpForce     bool
)

var cpCmd = &cobra.Command{
	Use:   "cp <source> <destination>",
	Short: "Copy a file or directory",
	Long: `Copy a file, or a directory tree with --recursive.

Copies across user shards are emulated and not atomic.

Examples:
  # Copy a file
  cfs cp /Users/alice/a.txt /Users/alice/b.txt

  # Copy a directory tree
  cfs cp -r /Users/alice/docs /Users/alice/backup

  # Overwrite existing destination files
  cfs cp -f /Users/alice/a.txt /Users/bob/a.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runCp,
}

func init() {
	cpCmd.Flags().BoolVarP(&cpRecursive, "recursive", "r", false, "Copy directories recursively")
	cpCmd.Flags().BoolVarP(&cpForce, "force", "f", false, "Overwrite existing destination files")
}

func runCp(cmd *cobra.Command, args []string) error {
	fs, err := openFS()
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	return fs.Cp(cmd.Context(), args[0], args[1], vfs.CpOptions{
		Recursive: cpRecursive,
		Force:     cpForce,
	})
}
