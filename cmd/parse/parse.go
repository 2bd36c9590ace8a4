package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/mapic/cmd"
	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/features/aimeta"
	"github.com/sagan/mapic/util"
	"github.com/sagan/mapic/util/helper"
)

var parseCmd = &cobra.Command{
	Use:   "parse {file | dir}...",
	Short: "Extract AI generation metadata from image files",
	Long: `Extract AI generation metadata from image files.

It reads the metadata payload embedded in .png text chunks ("prompt", "parameters", "Description"...)
or .jpg EXIF UserComment, recognizes ComfyUI node graphs, AUTOMATIC1111 / Forge parameters text
and Civitai resources, and outputs the normalized record:
  prompt, negative_prompt, model, sampler, scheduler, steps, cfg_scale, seed, denoise, vae, loras

Absent prompts are "N/A", absent other fields are "-".
If multiple files are parsed, the output is a map of file => record.
A {dir} arg is expanded to the image files inside it. Glob patterns are supported.

Use --template flag to format the output of each file. The template can access
".file", ".kind" and ".meta" (the record, with Go field names, e.g. ".meta.Seed").

Examples:
  mapic parse a.png
  mapic parse a.png b.jpg --format yaml
  mapic parse "*.png" -t "{{.file}}: {{.meta.Seed}}"
  mapic parse a.png --raw
  mapic parse --schema`,
	RunE: doParse,
}

var (
	flagForce    bool
	flagRaw      bool
	flagSchema   bool
	flagFormat   string
	flagTemplate string
	flagOutput   string
)

func init() {
	parseCmd.Flags().BoolVarP(&flagForce, "force", "", false, "Override existing output file")
	parseCmd.Flags().BoolVarP(&flagRaw, "raw", "", false,
		`Output the unparsed metadata payload of each file, prefixed with its recognized kind `+
			`("node_graph", "free_text" or "opaque")`)
	parseCmd.Flags().BoolVarP(&flagSchema, "schema", "", false,
		"Output the json schema of the metadata record and exit. File args are ignored")
	parseCmd.Flags().StringVarP(&flagFormat, "format", "f", "json", `Output format: "json", "yaml" or "toml"`)
	parseCmd.Flags().StringVarP(&flagTemplate, "template", "t", "", `Template to format the output. `+
		constants.HELP_TEMPLATE_FLAG)
	parseCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", `Output file path. Use "-" for stdout`)
	cmd.RootCmd.AddCommand(parseCmd)
}

func doParse(command *cobra.Command, args []string) (err error) {
	if flagOutput != "-" {
		if exists, err := util.FileExists(flagOutput); err != nil || (exists && !flagForce) {
			return fmt.Errorf("output file %q exists or can't access, err=%w", flagOutput, err)
		}
	}
	var output string
	errorCnt := 0
	if flagSchema {
		output, err = schema()
	} else {
		if len(args) == 0 {
			return fmt.Errorf("no file specified")
		}
		output, errorCnt, err = parse(args)
	}
	if err != nil {
		return err
	}
	if output != "" && !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	if flagOutput == "-" {
		_, err = io.WriteString(command.OutOrStdout(), output)
	} else {
		err = atomic.WriteFile(flagOutput, strings.NewReader(output))
	}
	if err != nil {
		return err
	}
	if errorCnt > 0 {
		return fmt.Errorf("%d errors", errorCnt)
	}
	return nil
}

func schema() (string, error) {
	reflector := &jsonschema.Reflector{ExpandedStruct: true}
	data, err := util.Marshal("json", reflector.Reflect(&aimeta.ImageMetadata{}))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parse returns the output of files and the number of files that failed.
func parse(args []string) (output string, errorCnt int, err error) {
	files, err := helper.ParseImageArgs(args...)
	if err != nil {
		return "", 0, err
	}
	if len(files) == 0 {
		return "", 0, fmt.Errorf("no image file found")
	}
	var tpl *helper.Template
	if flagTemplate != "" {
		if tpl, err = helper.GetTemplate(flagTemplate, true); err != nil {
			return "", 0, fmt.Errorf("invalid template: %w", err)
		}
	}
	extractor, closeFunc := cmd.NewExtractor()
	defer closeFunc()

	sb := &strings.Builder{}
	records := map[string]*aimeta.ImageMetadata{}
	for _, file := range files {
		if flagRaw {
			raw, err := extractor.Fetch(file)
			if err != nil {
				log.Warnf("%s: %v", file, err)
				errorCnt++
				continue
			}
			kind, _ := aimeta.Classify(raw)
			fmt.Fprintf(sb, "%s: %s\n%s\n", file, kind, raw)
			continue
		}
		m, err := extractor.ExtractFile(file)
		if err != nil {
			log.Warnf("%s: %v", file, err)
			errorCnt++
			continue
		}
		if tpl != nil {
			raw, _ := extractor.Fetch(file)
			kind, _ := aimeta.Classify(raw)
			line, err := tpl.Exec(map[string]any{"file": file, "kind": kind.String(), "meta": m})
			if err != nil {
				return "", errorCnt, fmt.Errorf("template execute error: %w", err)
			}
			fmt.Fprintln(sb, line)
			continue
		}
		records[file] = m
	}
	if !flagRaw && tpl == nil && len(records) > 0 {
		var data []byte
		if len(files) == 1 {
			data, err = util.Marshal(flagFormat, records[files[0]])
		} else {
			data, err = util.Marshal(flagFormat, records)
		}
		if err != nil {
			return "", errorCnt, err
		}
		sb.Write(data)
	}
	return sb.String(), errorCnt, nil
}
