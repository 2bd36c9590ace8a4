package savemeta

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/mapic/cmd"
	"github.com/sagan/mapic/features/report"
	"github.com/sagan/mapic/util"
	"github.com/sagan/mapic/util/helper"
	"github.com/sagan/mapic/util/pathutil"
)

var savemetaCmd = &cobra.Command{
	Use:   "savemeta {file | dir}...",
	Short: "Save the metadata of images to .txt sidecar files",
	Long: `Save the metadata of images to .txt sidecar files.

For each image "X.png" / "X.jpg", it writes "X.txt" in the same dir, one labeled line per field:
  Size: 1024 x 1536
  Prompt: ...
  Negative Prompt: ...
  Checkpoint: ...
  Sampler / Scheduler / Steps / CFG scale / Seed / Denoise / VAE / LoRA

Existing .txt files are overwritten, unless --skip-existing flag is set.
A {dir} arg is expanded to the image files inside it. Glob patterns are supported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: savemeta,
}

var (
	flagSkipExisting bool
	flagDryRun       bool
)

func init() {
	cmd.RootCmd.AddCommand(savemetaCmd)
	savemetaCmd.Flags().BoolVarP(&flagSkipExisting, "skip-existing", "", false, "Do not overwrite existing .txt files")
	savemetaCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "d", false, "Do not write files, only print the contents")
}

func savemeta(_ *cobra.Command, args []string) error {
	files, err := helper.ParseImageArgs(args...)
	if err != nil {
		return err
	}
	extractor, closeFunc := cmd.NewExtractor()
	defer closeFunc()

	errorCnt := 0
	for _, file := range files {
		sidecar := pathutil.SidecarPath(file)
		if flagSkipExisting {
			if exists, err := util.FileExists(sidecar); err != nil || exists {
				log.Printf("Skip %s: sidecar exists or can't access (err=%v)", file, err)
				continue
			}
		}
		m, err := extractor.ExtractFile(file)
		if err != nil {
			log.Errorf("%s: %v", file, err)
			errorCnt++
			continue
		}
		if flagDryRun {
			fmt.Printf("%s:\n%s\n", sidecar, report.Text(file, m))
			continue
		}
		if _, err := report.SaveSidecar(file, m); err != nil {
			log.Errorf("%s: %v", file, err)
			errorCnt++
			continue
		}
		log.Printf("Saved %s", sidecar)
	}
	if errorCnt > 0 {
		return fmt.Errorf("%d errors", errorCnt)
	}
	return nil
}
