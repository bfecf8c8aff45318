package commands

import (
	"errors"
	"fmt"

	"github.com/janwilmake/cloudflare-fs/internal/cli/prompt"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs"
	"github.com/spf13/cobra"
)

var (
	rmRecursive bool
	rmForce     bool
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove a file or directory",
	Long: `Remove a file or an empty directory. Use --recursive to remove a
directory and everything below it.

Recursive removal asks for confirmation unless --force is given.

Examples:
  # Remove a file
  cfs rm /Users/alice/notes.txt

  # Remove a directory tree (prompts for confirmation)
  cfs rm -r /Users/alice/docs

  # Remove without prompting; missing paths are not an error
  cfs rm -rf /Users/alice/docs`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rmCmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "Remove directories and their contents")
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "Skip confirmation; ignore missing paths")
}

func runRm(cmd *cobra.Command, args []string) error {
	path := args[0]

	if rmRecursive && !rmForce {
		ok, err := prompt.Confirm(fmt.Sprintf("Remove %s and all its contents?", path), false)
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return nil
			}
			return err
		}
		if !ok {
			fmt.Println("Aborted")
			return nil
		}
	}

	fs, err := openFS()
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	return fs.Rm(cmd.Context(), path, vfs.RmOptions{
		Recursive: rmRecursive,
		Force:     rmForce,
	})
}
