package copy

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagan/mapic/cmd"
	"github.com/sagan/mapic/features/clipboard"
)

var copyCmd = &cobra.Command{
	Use:   "copy {file}",
	Short: "Copy a metadata field (or the image) to clipboard. Windows only",
	Long: `Copy a metadata field (or the image) to clipboard. Windows only.

Fields: ` + strings.Join(clipboard.Fields, ", ") + `. Prompts are copied whitespace collapsed.
Absent fields ("N/A" / "-") are not copied.

Examples:
  mapic copy a.png --field seed
  mapic copy a.png --image`,
	Args: cobra.ExactArgs(1),
	RunE: doCopy,
}

var (
	flagImage bool
	flagPrint bool
	flagField string
)

func init() {
	cmd.RootCmd.AddCommand(copyCmd)
	copyCmd.Flags().BoolVarP(&flagImage, "image", "I", false, `Copy the image itself (converted to png) instead`)
	copyCmd.Flags().BoolVarP(&flagPrint, "print", "p", false, `Also print the copied text`)
	copyCmd.Flags().StringVarP(&flagField, "field", "f", "prompt", `The field to copy`)
}

func doCopy(command *cobra.Command, args []string) error {
	file := args[0]
	if flagImage {
		return clipboard.CopyImage(file)
	}
	extractor, closeFunc := cmd.NewExtractor()
	defer closeFunc()
	m, err := extractor.ExtractFile(file)
	if err != nil {
		return err
	}
	value, err := clipboard.CopyField(m, flagField)
	if err != nil {
		return err
	}
	if flagPrint {
		fmt.Fprintln(command.OutOrStdout(), value)
	}
	return nil
}
