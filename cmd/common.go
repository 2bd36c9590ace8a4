package cmd

import (
	log "github.com/sirupsen/logrus"

	"github.com/sagan/mapic/config"
	"github.com/sagan/mapic/features/aimeta"
	"github.com/sagan/mapic/features/exifreader"
	"github.com/sagan/mapic/features/state"
)

// NewExtractor returns the metadata extractor configured by env.
// The returned close func stops the exiftool process, if any was started.
func NewExtractor() (*aimeta.Extractor, func()) {
	reader := exifreader.New(config.GetExifReader(), config.GetExiftoolPath())
	return aimeta.NewExtractor(reader), func() {
		if err := reader.Close(); err != nil {
			log.Debugf("close exif reader: %v", err)
		}
	}
}

// LoadState reads the state file. It never fails.
func LoadState() *state.State {
	return state.Load(config.GetStateFile())
}

// SaveState writes the state file. Failures are only logged.
func SaveState(s *state.State) {
	if err := s.Save(config.GetStateFile()); err != nil {
		log.Warnf("failed to save state: %v", err)
	}
}

// FolderArg returns the optional {dir} arg of folder commands,
// defaulting to the last folder of the state file, then to the current dir.
func FolderArg(args []string, s *state.State) string {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	return s.Folder(dir)
}
