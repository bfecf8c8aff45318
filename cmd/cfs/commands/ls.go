package commands

import (
	"fmt"
	"os"

	"github.com/janwilmake/cloudflare-fs/internal/cli/output"
	"github.com/janwilmake/cloudflare-fs/internal/cli/timeutil"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
	"github.com/spf13/cobra"
)

var (
	lsOutput string
	lsLong   bool
)

var lsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List directory contents",
	Long: `List the entries of a directory.

Examples:
  # List names
  cfs ls /Users/alice

  # Long listing with size, mode and modification time
  cfs ls -l /Users/alice

  # Machine-readable output
  cfs ls -o json /Users/alice`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().StringVarP(&lsOutput, "output", "o", "table", "Output format (table|json|yaml)")
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "Long listing (stat each entry)")
}

func runLs(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(lsOutput)
	if err != nil {
		return err
	}

	fs, err := openFS()
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	ctx := cmd.Context()
	path := args[0]

	entries, err := fs.ReadDir(ctx, path)
	if err != nil {
		return err
	}

	if format != output.FormatTable {
		printer := output.NewPrinter(os.Stdout, format)
		return printer.Print(entries)
	}

	if !lsLong {
		for _, entry := range entries {
			name := entry.Name
			if entry.IsDir() {
				name += "/"
			}
			fmt.Println(name)
		}
		return nil
	}

	table := output.NewTableData("NAME", "KIND", "SIZE", "MODE", "MODIFIED")
	for _, entry := range entries {
		info, err := fs.Stat(ctx, fspath.Join(path, entry.Name))
		if err != nil {
			return err
		}
		table.AddRow(
			entry.Name,
			string(entry.Kind),
			fmt.Sprintf("%d", info.Size),
			fmt.Sprintf("%04o", info.Mode),
			timeutil.FormatUnix(info.Mtime),
		)
	}
	return output.PrintTable(os.Stdout, table)
}
