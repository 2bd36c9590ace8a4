package show

import (
	"bytes"
	"fmt"
	"io"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/sagan/mapic/cmd"
	"github.com/sagan/mapic/config"
	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/features/report"
	"github.com/sagan/mapic/util"
)

var showCmd = &cobra.Command{
	Use:   "show {file}",
	Short: "Render the metadata page of an image as html",
	Long: `Render the metadata page of an image as html.

The page has the image thumbnail (embedded as data url), its size, and all metadata fields.
The --theme flag selects "dark" or "light" colors; "auto" checks the terminal background (COLORFGBG env).
If not set, it uses ` + constants.ENV_THEME + ` env, then fallbacks to "` + constants.DEFAULT_THEME + `".

Examples:
  mapic show a.png -o a.html
  mapic show a.jpg --theme dark > a.html`,
	Args: cobra.ExactArgs(1),
	RunE: doShow,
}

var (
	flagForce  bool
	flagSize   int
	flagTheme  string
	flagOutput string
)

func init() {
	cmd.RootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVarP(&flagForce, "force", "", false, "Override existing output file")
	showCmd.Flags().IntVarP(&flagSize, "size", "", 512, "Max width / height of the embedded thumbnail")
	showCmd.Flags().StringVarP(&flagTheme, "theme", "", "", `Page theme: "auto", "dark" or "light"`)
	showCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", `Output file path. Use "-" for stdout`)
}

func doShow(command *cobra.Command, args []string) error {
	if flagOutput != "-" {
		if exists, err := util.FileExists(flagOutput); err != nil || (exists && !flagForce) {
			return fmt.Errorf("output file %q exists or can't access, err=%w", flagOutput, err)
		}
	}
	if flagTheme == "" {
		flagTheme = config.GetTheme()
	}
	theme, err := report.GetTheme(flagTheme)
	if err != nil {
		return err
	}
	file := args[0]
	extractor, closeFunc := cmd.NewExtractor()
	defer closeFunc()
	m, err := extractor.ExtractFile(file)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	if err = report.RenderHTML(buf, report.NewPage(file, m, flagSize, flagSize), theme); err != nil {
		return err
	}
	if flagOutput == "-" {
		_, err = io.Copy(command.OutOrStdout(), buf)
	} else {
		err = atomic.WriteFile(flagOutput, buf)
	}
	return err
}
