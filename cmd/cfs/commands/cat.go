package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var catEncoding string

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print file contents",
	Long: `Print the contents of a file to stdout.

Examples:
  # Print as text
  cfs cat /Users/alice/notes.txt

  # Print base64-encoded (binary files)
  cfs cat --encoding base64 /Users/alice/image.png`,
	Args: cobra.ExactArgs(1),
	RunE: runCat,
}

func init() {
	catCmd.Flags().StringVar(&catEncoding, "encoding", "utf8", "Output encoding (utf8|base64|hex)")
}

func runCat(cmd *cobra.Command, args []string) error {
	fs, err := openFS()
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	data, err := fs.ReadFileString(cmd.Context(), args[0], catEncoding)
	if err != nil {
		return err
	}

	fmt.Print(data)
	if catEncoding != "utf8" || (len(data) > 0 && data[len(data)-1] != '\n') {
		fmt.Println()
	}
	return nil
}
