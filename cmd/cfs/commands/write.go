package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs"
	"github.com/spf13/cobra"
)

var (
	writeEncoding string
	writeMode     string
)

var writeCmd = &cobra.Command{
	Use:   "write <path> [data]",
	Short: "Write a file",
	Long: `Write data to a file, creating or replacing it.

If no data argument is given, the content is read from stdin.

Examples:
  # Write a literal string
  cfs write /Users/alice/notes.txt "hello world"

  # Write from stdin
  echo "hello" | cfs write /Users/alice/notes.txt

  # Write binary data as base64
  cfs write --encoding base64 /Users/alice/blob aGVsbG8=

  # Write with explicit permissions
  cfs write --mode 0600 /Users/alice/secret.txt "s3cret"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().StringVar(&writeEncoding, "encoding", "utf8", "Input encoding (utf8|base64|hex)")
	writeCmd.Flags().StringVar(&writeMode, "mode", "", "Permission mode for the file (octal)")
}

func runWrite(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(writeMode)
	if err != nil {
		return err
	}

	var data string
	if len(args) == 2 {
		data = args[1]
	} else {
		stdin, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		data = string(stdin)
	}

	fs, err := openFS()
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	return fs.WriteFileString(cmd.Context(), args[0], data, vfs.WriteOptions{
		Encoding: writeEncoding,
		Mode:     mode,
	})
}
