package diff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/sagan/mapic/cmd"
	"github.com/sagan/mapic/features/aimeta"
	"github.com/sagan/mapic/util"
)

var diffCmd = &cobra.Command{
	Use:   "diff {left_image} {right_image}",
	Short: "Compare the generation metadata of two images",
	Long: `Compare the generation metadata of two images.

It prints the differing fields as "field: left => right" lines; LoRAs are compared by name
("lora:<name>" with weights; an empty side means the LoRA is absent).
Use --format to output json / yaml / toml instead.
It exits with an error if the metadata differ, unless --no-fail flag is set.`,
	Args: cobra.ExactArgs(2),
	RunE: doDiff,
}

var (
	flagForce  bool
	flagNoFail bool
	flagFormat string
	flagOutput string
)

func init() {
	cmd.RootCmd.AddCommand(diffCmd)
	diffCmd.Flags().BoolVarP(&flagForce, "force", "", false, "Override existing output file")
	diffCmd.Flags().BoolVarP(&flagNoFail, "no-fail", "", false, "Do not return an error when the metadata differ")
	diffCmd.Flags().StringVarP(&flagFormat, "format", "f", "", `Output format: "json", "yaml" or "toml"`)
	diffCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", `Output file path. Use "-" for stdout`)
}

func doDiff(command *cobra.Command, args []string) (err error) {
	if flagOutput != "-" {
		if exists, err := util.FileExists(flagOutput); err != nil || (exists && !flagForce) {
			return fmt.Errorf("output file %q exists or can't access, err=%w", flagOutput, err)
		}
	}
	extractor, closeFunc := cmd.NewExtractor()
	defer closeFunc()
	left, err := extractor.ExtractFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read left image: %w", err)
	}
	right, err := extractor.ExtractFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read right image: %w", err)
	}
	diffs := aimeta.Diff(left, right)

	buf := &bytes.Buffer{}
	if flagFormat != "" {
		data, err := util.Marshal(flagFormat, map[string]any{"diffs": diffs})
		if err != nil {
			return err
		}
		buf.Write(data)
	} else if err = aimeta.PrintDiff(buf, diffs); err != nil {
		return err
	}
	if flagOutput == "-" {
		_, err = io.Copy(command.OutOrStdout(), buf)
	} else {
		err = atomic.WriteFile(flagOutput, buf)
	}
	if err != nil {
		return err
	}
	if len(diffs) > 0 && !flagNoFail {
		return fmt.Errorf("%d fields differ", len(diffs))
	}
	return nil
}
