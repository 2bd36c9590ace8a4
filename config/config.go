package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/sagan/mapic/constants"
)

var initOnce sync.Once

// Init loads the optional ".env" file of current dir into env. Existing env variables are not overridden.
func Init() {
	initOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("failed to load .env file: %v", err)
		}
	})
}

func getenv(name string, def string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		value = def
	}
	return value
}

// GetExiftoolPath returns the exiftool binary to use.
// It checks the MAPIC_EXIFTOOL environment variable first, then falls back to "exiftool" in PATH.
func GetExiftoolPath() string {
	return getenv(constants.ENV_EXIFTOOL, constants.EXIFTOOL)
}

// GetExifReader returns the JPEG UserComment reader mode: "auto", "exiftool" or "embedded".
// Unknown values are treated as "auto".
func GetExifReader() string {
	mode := strings.ToLower(getenv(constants.ENV_EXIF_READER, constants.DEFAULT_EXIF_READER))
	switch mode {
	case constants.EXIF_READER_AUTO, constants.EXIF_READER_EXIFTOOL, constants.EXIF_READER_EMBEDDED:
		return mode
	}
	log.Warnf("unknown %s value %q, using %q", constants.ENV_EXIF_READER, mode, constants.DEFAULT_EXIF_READER)
	return constants.DEFAULT_EXIF_READER
}

func GetStateFile() string {
	return getenv(constants.ENV_STATE_FILE, constants.DEFAULT_STATE_FILE)
}

func GetTheme() string {
	return strings.ToLower(getenv(constants.ENV_THEME, constants.DEFAULT_THEME))
}

func GetLogLevel() string {
	return getenv(constants.ENV_LOG_LEVEL, constants.DEFAULT_LOG_LEVEL)
}
