package constants

const (
	// Env variable names

	ENV_EXIFTOOL    = "MAPIC_EXIFTOOL"    // exiftool binary path
	ENV_EXIF_READER = "MAPIC_EXIF_READER" // JPEG UserComment reader: auto / exiftool / embedded
	ENV_STATE_FILE  = "MAPIC_STATE_FILE"
	ENV_THEME       = "MAPIC_THEME"
	ENV_LOG_LEVEL   = "MAPIC_LOG_LEVEL"

	// Set by some terminals (rxvt, konsole...), "fg;bg" color indexes.
	ENV_COLORFGBG = "COLORFGBG"

	EXIFTOOL = "exiftool"

	EXIF_READER_AUTO     = "auto"
	EXIF_READER_EXIFTOOL = "exiftool"
	EXIF_READER_EMBEDDED = "embedded"

	DEFAULT_EXIF_READER = EXIF_READER_AUTO
	DEFAULT_STATE_FILE  = ".mapic_state.json"
	DEFAULT_LOG_LEVEL   = "info"

	THEME_AUTO  = "auto"
	THEME_DARK  = "dark"
	THEME_LIGHT = "light"

	DEFAULT_THEME = THEME_AUTO

	// Placeholder of absent prompt / negative prompt.
	NA = "N/A"
	// Placeholder of absent scalar fields.
	NONE = "-"

	DEFAULT_THUMBNAIL_WIDTH  = 160
	DEFAULT_THUMBNAIL_HEIGHT = 120
	THUMBNAIL_CACHE_SIZE     = 4096
	THUMBNAIL_SUFFIX         = ".thumb.jpg"

	// Prefix of CSV export cell of failed image
	EXPORT_ERROR_PREFIX = "Chyba: "
)

const HELP_TEMPLATE_FLAG = `The Go text template string. If the value starts with "@", ` +
	`it (the rest part after @) is treated as a filename, ` +
	`which contents will be used as template. ` +
	`All sprout functions are supported, see https://github.com/go-sprout/sprout`

const HELP_DIR_ARG = `If {dir} is not set, it uses the last folder recorded in the state file ` +
	`(` + ENV_STATE_FILE + ` env, default "` + DEFAULT_STATE_FILE + `"), then fallbacks to current dir`
