package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/mapic/cmd"
	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/features/report"
	"github.com/sagan/mapic/util"
	"github.com/sagan/mapic/util/helper"
	"github.com/sagan/mapic/util/pathutil"
)

const DEFAULT_OUTPUT = "metadata_export.csv"

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export the metadata of all images in a folder to csv / xlsx",
	Long: `Export the metadata of all images in a folder to csv / xlsx.

The output has two columns: "File" (filename) and "Metadata" (all fields joined by " | ").
An image whose metadata can not be read gets a "Chyba: <error>" Metadata cell; it does not abort the export.
If --output file has ".xlsx" extension, an Excel workbook is written, otherwise csv.

` + constants.HELP_DIR_ARG + `.
If --output is not set, it writes "` + DEFAULT_OUTPUT + `" in the last output folder of the state file,
or in {dir}. If the output file exists, it asks for confirmation, unless --force flag is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: doExport,
}

var (
	flagForce  bool
	flagOutput string
)

func init() {
	cmd.RootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVarP(&flagForce, "force", "", false, "Force overwriting without confirmation")
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", `Output file path (.csv or .xlsx). Use "-" for stdout`)
}

func doExport(command *cobra.Command, args []string) error {
	s := cmd.LoadState()
	dir := cmd.FolderArg(args, s)
	output := flagOutput
	if output == "" {
		outDir := s.OutFolder
		if outDir == "" {
			outDir = dir
		}
		output = filepath.Join(outDir, DEFAULT_OUTPUT)
	}
	if output != "-" {
		if exists, err := util.FileExists(output); err != nil {
			return fmt.Errorf("output file %q can't access, err=%w", output, err)
		} else if exists && !flagForce && !helper.AskYesNoConfirm(fmt.Sprintf("Output file %q exists", output)) {
			return fmt.Errorf("output file %q exists", output)
		}
	}

	files, err := pathutil.ListImages(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no image in %s", dir)
	}
	extractor, closeFunc := cmd.NewExtractor()
	defer closeFunc()

	buf := &bytes.Buffer{}
	failed, err := report.Export(buf, report.FormatOf(output), files, extractor.ExtractFile)
	if err != nil {
		return err
	}
	if output == "-" {
		_, err = io.Copy(command.OutOrStdout(), buf)
	} else {
		err = atomic.WriteFile(output, buf)
	}
	if err != nil {
		return err
	}
	if output != "-" {
		log.Printf("Exported metadata of %d images (%d failed) to %s", len(files), failed, output)
		s.OutFolder = filepath.Dir(output)
		if abs, err := filepath.Abs(s.OutFolder); err == nil {
			s.OutFolder = abs
		}
	}
	s.Record(dir, files)
	cmd.SaveState(s)
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d images failed, see the %q rows\n", failed, constants.EXPORT_ERROR_PREFIX)
	}
	return nil
}
