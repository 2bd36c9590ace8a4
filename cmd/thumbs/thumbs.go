package thumbs

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/mapic/cmd"
	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/features/thumbs"
	"github.com/sagan/mapic/util"
)

var thumbsCmd = &cobra.Command{
	Use:   "thumbs [dir]",
	Short: "Build the thumbnails of all images in a folder",
	Long: `Build the thumbnails of all images in a folder.

Images are processed one by one in filename order by a single background worker,
which writes "<name>` + constants.THUMBNAIL_SUFFIX + `" files (in --output-dir, or next to the images).
Existing thumbnail files are kept, unless --force flag is set.
Press Ctrl+C to stop: the current image is finished, then the worker exits.

` + constants.HELP_DIR_ARG + `.

Examples:
  mapic thumbs ./outputs
  mapic thumbs ./outputs --size 256x256 --smart-crop --output-dir ./thumbs`,
	Args: cobra.MaximumNArgs(1),
	RunE: doThumbs,
}

var (
	flagForce     bool
	flagSmartCrop bool
	flagQuiet     bool
	flagSize      string
	flagOutputDir string
)

func init() {
	cmd.RootCmd.AddCommand(thumbsCmd)
	thumbsCmd.Flags().BoolVarP(&flagForce, "force", "", false, "Overwrite existing thumbnail files")
	thumbsCmd.Flags().BoolVarP(&flagSmartCrop, "smart-crop", "", false,
		"Content-aware crop to exactly the --size, instead of fitting the whole image inside it")
	thumbsCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Do not print progress")
	thumbsCmd.Flags().StringVarP(&flagSize, "size", "", fmt.Sprintf("%dx%d",
		constants.DEFAULT_THUMBNAIL_WIDTH, constants.DEFAULT_THUMBNAIL_HEIGHT), "Thumbnail max size, WxH")
	thumbsCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "", "", "Thumbnail files dir. Default is the images dir")
}

func parseSize(size string) (width, height int, err error) {
	w, h, found := strings.Cut(strings.ToLower(size), "x")
	if !found {
		return 0, 0, fmt.Errorf("invalid size %q, must be WxH", size)
	}
	width, height = util.ParseInt(w, 0), util.ParseInt(h, 0)
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q, must be WxH", size)
	}
	return width, height, nil
}

func doThumbs(_ *cobra.Command, args []string) error {
	width, height, err := parseSize(flagSize)
	if err != nil {
		return err
	}
	if flagOutputDir != "" {
		if err := os.MkdirAll(flagOutputDir, 0755); err != nil {
			return err
		}
	}
	s := cmd.LoadState()
	dir := cmd.FolderArg(args, s)

	cache, err := thumbs.NewCache(constants.THUMBNAIL_CACHE_SIZE)
	if err != nil {
		return err
	}
	manager := thumbs.NewManager(cache)
	worker, err := manager.Start(context.Background(), dir, thumbs.Options{
		Width:     width,
		Height:    height,
		SmartCrop: flagSmartCrop,
		Save:      true,
		Dir:       flagOutputDir,
		Force:     flagForce,
	})
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			log.Warnf("Stopping after the current image...")
			worker.Abort()
		case <-worker.Done():
		}
	}()

	errorCnt := 0
	for n := range worker.Notifications() {
		if n.Err != nil {
			log.Errorf("%s: %v", n.File, n.Err)
			errorCnt++
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r%s", n)
		}
	}
	if err := manager.Wait(); err != nil {
		return err
	}
	if !flagQuiet && len(worker.Files()) > 0 {
		fmt.Fprintln(os.Stderr)
	}
	if worker.Aborted() {
		return fmt.Errorf("aborted")
	}
	s.Record(dir, worker.Files())
	cmd.SaveState(s)
	if errorCnt > 0 {
		return fmt.Errorf("%d errors", errorCnt)
	}
	return nil
}
