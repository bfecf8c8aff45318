package commands

import (
	"fmt"
	"os"

	"github.com/janwilmake/cloudflare-fs/internal/cli/output"
	"github.com/janwilmake/cloudflare-fs/internal/cli/timeutil"
	"github.com/spf13/cobra"
)

var statOutput string

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show entry metadata",
	Long: `Show the metadata of a file or directory.

Examples:
  # Human-readable table
  cfs stat /Users/alice/notes.txt

  # Machine-readable output
  cfs stat -o json /Users/alice/notes.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runStat,
}

func init() {
	statCmd.Flags().StringVarP(&statOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

func runStat(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statOutput)
	if err != nil {
		return err
	}

	fs, err := openFS()
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	info, err := fs.Stat(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if format != output.FormatTable {
		printer := output.NewPrinter(os.Stdout, format)
		return printer.Print(info)
	}

	return output.SimpleTable(os.Stdout, [][2]string{
		{"Path", info.Path},
		{"Name", info.Name},
		{"Kind", string(info.Kind)},
		{"Size", fmt.Sprintf("%d", info.Size)},
		{"Mode", fmt.Sprintf("%04o", info.Mode)},
		{"UID", fmt.Sprintf("%d", info.UID)},
		{"GID", fmt.Sprintf("%d", info.GID)},
		{"Modified", timeutil.FormatUnix(info.Mtime)},
		{"Changed", timeutil.FormatUnix(info.Ctime)},
		{"Accessed", timeutil.FormatUnix(info.Atime)},
	})
}
