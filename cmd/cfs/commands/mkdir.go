package commands

import (
	"fmt"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs"
	"github.com/spf13/cobra"
)

var (
	mkdirParents bool
	mkdirMode    string
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory",
	Long: `Create a directory at the given path.

Examples:
  # Create a directory (parent must exist)
  cfs mkdir /Users/alice/docs

  # Create a directory and all missing ancestors
  cfs mkdir -p /Users/alice/a/b/c

  # Create with explicit permissions
  cfs mkdir --mode 0700 /Users/alice/private`,
	Args: cobra.ExactArgs(1),
	RunE: runMkdir,
}

func init() {
	mkdirCmd.Flags().BoolVarP(&mkdirParents, "parents", "p", false, "Create missing parent directories")
	mkdirCmd.Flags().StringVar(&mkdirMode, "mode", "", "Permission mode for created directories (octal)")
}

func runMkdir(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(mkdirMode)
	if err != nil {
		return err
	}

	fs, err := openFS()
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	created, err := fs.Mkdir(cmd.Context(), args[0], vfs.MkdirOptions{
		Recursive: mkdirParents,
		Mode:      mode,
	})
	if err != nil {
		return err
	}

	fmt.Println(created)
	return nil
}
