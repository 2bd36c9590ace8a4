package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/mapic/config"
	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/version"
)

var RootCmd = &cobra.Command{
	Use:   "mapic",
	Short: "mapic " + version.Version,
	Long: `mapic ` + version.Version + "." + `
Browse folders of AI generated images and extract the generation metadata
(prompt, negative prompt, model, sampler, seed, LoRAs...) embedded by ComfyUI,
AUTOMATIC1111 / Forge and Civitai in PNG text chunks or JPEG EXIF UserComment.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

var flagLogLevel string

func preRun(cmd *cobra.Command, args []string) error {
	config.Init()
	levelName := flagLogLevel
	if levelName == "" {
		levelName = config.GetLogLevel()
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	log.SetLevel(level)
	return nil
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&flagLogLevel, "log-level", "", "",
		`Log level: "panic", "fatal", "error", "warn", "info", "debug", "trace". `+
			`If not set, it uses `+constants.ENV_LOG_LEVEL+` env, then fallbacks to "`+constants.DEFAULT_LOG_LEVEL+`"`)
}
