package list

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sagan/mapic/cmd"
	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/features/aimeta"
	"github.com/sagan/mapic/util"
	"github.com/sagan/mapic/util/pathutil"
	"github.com/sagan/mapic/util/stringutil"
)

var listCmd = &cobra.Command{
	Use:     "list [dir]",
	Aliases: []string{"ls"},
	Short:   "List images of a folder with their model / seed / sampler / steps",
	Long: `List images of a folder with their model / seed / sampler / steps.

Long values are truncated to the column width (CJK chars count as 2).
` + constants.HELP_DIR_ARG + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: doList,
}

var (
	flagNameWidth  int
	flagModelWidth int
	flagPrompt     bool
)

func init() {
	cmd.RootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&flagNameWidth, "name-width", "", 30, "Width of file name column")
	listCmd.Flags().IntVarP(&flagModelWidth, "model-width", "", 30, "Width of model column")
	listCmd.Flags().BoolVarP(&flagPrompt, "prompt", "p", false, "Also show the (truncated) prompt")
}

type column struct {
	title    string
	width    int
	padRight bool
	value    func(name string, m *aimeta.ImageMetadata) string
}

func columns() []column {
	cols := []column{
		{"File", flagNameWidth, true, func(name string, _ *aimeta.ImageMetadata) string { return filepath.Base(name) }},
		{"Model", flagModelWidth, true, func(_ string, m *aimeta.ImageMetadata) string { return m.Model }},
		{"Seed", 12, false, func(_ string, m *aimeta.ImageMetadata) string { return m.Seed }},
		{"Sampler", 20, true, func(_ string, m *aimeta.ImageMetadata) string { return m.Sampler }},
		{"Steps", 5, false, func(_ string, m *aimeta.ImageMetadata) string { return m.Steps }},
	}
	if flagPrompt {
		cols = append(cols, column{"Prompt", 50, true,
			func(_ string, m *aimeta.ImageMetadata) string { return m.CleanPrompt() }})
	}
	return cols
}

func doList(command *cobra.Command, args []string) error {
	s := cmd.LoadState()
	dir := cmd.FolderArg(args, s)
	files, err := pathutil.ListImages(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	extractor, closeFunc := cmd.NewExtractor()
	defer closeFunc()

	cols := columns()
	output := &util.ErrorWriter{W: command.OutOrStdout()}
	for i, col := range cols {
		if i > 0 {
			output.Fprintf("  ")
		}
		stringutil.PrintStringInWidth(output, col.title, col.width, col.padRight)
	}
	output.Fprintf("\n")
	for _, file := range files {
		m := extractor.Extract(file)
		for i, col := range cols {
			if i > 0 {
				output.Fprintf("  ")
			}
			stringutil.PrintStringInWidth(output, col.value(file, m), col.width, col.padRight)
		}
		output.Fprintf("\n")
	}
	if output.Err != nil {
		return output.Err
	}
	s.Record(dir, files)
	cmd.SaveState(s)
	return nil
}
