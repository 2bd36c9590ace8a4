package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vincent-petithory/dataurl"

	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/features/aimeta"
	"github.com/sagan/mapic/util/imgutil"
)

// Theme is the style of the metadata page.
type Theme struct {
	Name  string
	Style template.CSS
}

var (
	LightTheme = Theme{
		Name:  constants.THEME_LIGHT,
		Style: `.key1 { font-weight: bold; color: green; }
.key2 { font-weight: bold; color: firebrick; }
.key3 { font-weight: bold; color: steelblue; }
.key5 { font-weight: bold; color: black; }
.center { text-align: center; display: block; font-weight: bold; color: navy; }
body { background-color: white; color: black; }`,
	}
	DarkTheme = Theme{
		Name:  constants.THEME_DARK,
		Style: `.key1 { font-weight: bold; color: lightgreen; }
.key2 { font-weight: bold; color: salmon; }
.key3 { font-weight: bold; color: lightskyblue; }
.key5 { font-weight: bold; color: white; }
.center { text-align: center; display: block; font-weight: bold; color: lightblue; }
body { background-color: #121212; color: white; }`,
	}
)

// GetTheme returns the theme of name: "dark", "light" or "auto" (detected from terminal colors).
func GetTheme(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case constants.THEME_DARK:
		return DarkTheme, nil
	case constants.THEME_LIGHT:
		return LightTheme, nil
	case constants.THEME_AUTO, "":
		if IsDarkBackground(os.Getenv(constants.ENV_COLORFGBG)) {
			return DarkTheme, nil
		}
		return LightTheme, nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}

// IsDarkBackground reports whether a COLORFGBG value ("fg;bg" or "fg;default;bg")
// has a dark background color. Empty or malformed values are light.
func IsDarkBackground(colorfgbg string) bool {
	fields := strings.Split(colorfgbg, ";")
	bg, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return false
	}
	return (bg >= 0 && bg <= 6) || bg == 8
}

// Page is the metadata page of one image.
type Page struct {
	Name      string
	Width     int
	Height    int
	Thumbnail template.URL // data url, empty if the image can not be decoded
	Lines     []Line
	Meta      *aimeta.ImageMetadata
}

// NewPage builds the page of image with a thumbnail fitting in width x height.
func NewPage(image string, m *aimeta.ImageMetadata, width, height int) *Page {
	page := &Page{Name: filepath.Base(image), Lines: Lines(m), Meta: m}
	page.Width, page.Height, _ = imgutil.Size(image)
	if thumbnail, err := imgutil.Thumbnail(image, width, height); err == nil {
		buf := &bytes.Buffer{}
		if err := imgutil.EncodeJpeg(buf, thumbnail, 85); err == nil {
			page.Thumbnail = template.URL(dataurl.New(buf.Bytes(), "image/jpeg").String())
		}
	}
	return page
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"keyClass": keyClass,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Page.Name }}</title>
<style>
{{ .Theme.Style }}
</style>
</head>
<body class="{{ .Theme.Name }}">
<div class="center">{{ .Page.Name }}</div>
{{- if .Page.Thumbnail }}
<div class="center"><img src="{{ .Page.Thumbnail }}" alt="{{ .Page.Name }}"></div>
{{- end }}
{{- if .Page.Width }}
<div class="center">({{ .Page.Width }} x {{ .Page.Height }} px)</div>
{{- end }}
{{- range .Page.Lines }}
<div><span class="{{ keyClass .Label }}">{{ .Label }}:</span> {{ .Value }}</div>
{{- end }}
</body>
</html>
`))

func keyClass(label string) string {
	switch label {
	case "Prompt":
		return "key1"
	case "Negative Prompt":
		return "key2"
	case "Checkpoint":
		return "key5"
	}
	return "key3"
}

// RenderHTML writes the page styled by theme.
func RenderHTML(output io.Writer, page *Page, theme Theme) error {
	return pageTemplate.Execute(output, map[string]any{
		"Page":  page,
		"Theme": theme,
	})
}
