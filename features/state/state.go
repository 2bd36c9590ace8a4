// Package state persists the advisory session state (last folders and files) between runs.
package state

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"

	"github.com/sagan/mapic/util"
)

type Window struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
	X      int `json:"x" yaml:"x" toml:"x"`
	Y      int `json:"y" yaml:"y" toml:"y"`
}

// State is the contents of the state file.
type State struct {
	InFolder  string   `json:"in_folder,omitempty" yaml:"in_folder,omitempty" toml:"in_folder,omitempty"`
	OutFolder string   `json:"out_folder,omitempty" yaml:"out_folder,omitempty" toml:"out_folder,omitempty"`
	LastFiles []string `json:"last_files" yaml:"last_files" toml:"last_files"`
	// Opaque window geometry (hex), kept as is.
	Geometry string `json:"geometry,omitempty" yaml:"geometry,omitempty" toml:"geometry,omitempty"`
	Window   Window `json:"window" yaml:"window" toml:"window"`
	Theme    string `json:"theme,omitempty" yaml:"theme,omitempty" toml:"theme,omitempty"`
}

// format returns the serialization format of the state file name: yaml / toml by extension, json otherwise.
func format(name string) string {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".toml":
		return filepath.Ext(name)
	}
	return "json"
}

// Load reads the state file. A missing, unreadable or corrupted file yields the default (zero) state.
// Files of LastFiles that no longer exist are dropped.
func Load(name string) *State {
	s := &State{}
	contents, err := os.ReadFile(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("failed to read state file %q: %v", name, err)
		}
		return s
	}
	if err := util.UnmarshalTo(format(name), contents, s); err != nil {
		log.Warnf("state file %q is corrupted, using defaults: %v", name, err)
		return &State{}
	}
	s.LastFiles = util.FilterSlice(s.LastFiles, func(file string) bool {
		exists, err := util.FileExists(file)
		return err == nil && exists
	})
	return s
}

// Save writes the state file atomically.
func (s *State) Save(name string) error {
	if s.LastFiles == nil {
		s.LastFiles = []string{}
	}
	data, err := util.Marshal(format(name), s)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(name, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write state file %q: %w", name, err)
	}
	return nil
}

// Folder returns dir if it's not empty, otherwise the recorded InFolder if it's still a dir,
// otherwise the current dir ".".
func (s *State) Folder(dir string) string {
	if dir != "" {
		return dir
	}
	if s.InFolder != "" {
		if stat, err := os.Stat(s.InFolder); err == nil && stat.IsDir() {
			return s.InFolder
		}
	}
	return "."
}

// Record remembers a successfully processed folder and its files.
func (s *State) Record(dir string, files []string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	s.InFolder = dir
	s.LastFiles = files
}
