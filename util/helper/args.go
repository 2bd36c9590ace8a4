// functions with side effect
package helper

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/term"

	"github.com/sagan/mapic/util"
	"github.com/sagan/mapic/util/pathutil"
)

const globMetas = "*?[{"

// ParseImageArgs expands image file args: a dir is expanded into the image files directly inside it
// (see pathutil.ListImages), a glob pattern (e.g. "out/*.png") into the matching image files.
// Other args are kept as is. Duplicates are removed.
func ParseImageArgs(args ...string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if strings.ContainsAny(arg, globMetas) {
			if _, err := os.Stat(arg); err != nil {
				matches, err := Glob(arg)
				if err != nil {
					return nil, err
				}
				files = append(files, util.FilterSlice(matches, pathutil.IsImageFile)...)
				continue
			}
		}
		if stat, err := os.Stat(arg); err == nil && stat.IsDir() {
			images, err := pathutil.ListImages(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to read dir %q: %w", arg, err)
			}
			files = append(files, images...)
			continue
		}
		files = append(files, arg)
	}
	return util.UniqueSlice(files), nil
}

// Glob returns the files matching a shell-like pattern, sorted. "**" matches across dirs.
// A hidden (".xxx") path segment only matches a pattern segment starting with ".".
// Relative patterns give relative paths.
func Glob(pattern string) ([]string, error) {
	patternSlash := filepath.ToSlash(filepath.Clean(pattern))
	g, err := glob.Compile(patternSlash, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	root := globRoot(pattern)
	var matches []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		target := filepath.ToSlash(path)
		if !hiddenOK(patternSlash, target) || !g.Match(target) {
			return nil
		}
		matches = append(matches, path)
		return nil
	})
	slices.Sort(matches)
	return matches, nil
}

// globRoot returns the dir part of pattern before the first meta char.
func globRoot(pattern string) string {
	prefix := pattern
	if i := strings.IndexAny(pattern, globMetas); i >= 0 {
		prefix = pattern[:i]
	}
	if i := strings.LastIndexAny(prefix, `/\`); i >= 0 {
		return filepath.Clean(prefix[:i+1])
	}
	return "."
}

func hiddenOK(patternSlash, targetSlash string) bool {
	patternSegments := strings.Split(patternSlash, "/")
	targetSegments := strings.Split(targetSlash, "/")
	if len(patternSegments) != len(targetSegments) {
		return true
	}
	for i, segment := range targetSegments {
		if strings.HasPrefix(segment, ".") && segment != "." && segment != ".." &&
			!strings.HasPrefix(patternSegments[i], ".") {
			return false
		}
	}
	return true
}

// AskYesNoConfirm asks user to confirm an action by typing "yes" in tty.
// It returns false if stdin is not a tty.
func AskYesNoConfirm(prompt string) bool {
	if prompt == "" {
		prompt = "Will do the action"
	}
	fmt.Fprintf(os.Stderr, "%s, are you sure? (yes/no): ", prompt)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, `Abort due to stdin is NOT tty. Use "--force" flag to skip the prompt`)
		return false
	}
	for {
		input := ""
		fmt.Scanln(&input)
		switch strings.ToLower(input) {
		case "yes", "y":
			return true
		case "no", "n", "":
			return false
		}
		fmt.Fprint(os.Stderr, "Respond with yes or no (Or use Ctrl+C to abort): ")
	}
}
