package helper

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"strings"
	"sync"
	"text/template"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"github.com/go-sprout/sprout"
	"github.com/go-sprout/sprout/group/all"
	"github.com/google/shlex"
	log "github.com/sirupsen/logrus"

	"github.com/sagan/mapic/util"
	"github.com/sagan/mapic/util/stringutil"
)

// sprout provided template funcs
var templateFuncs map[string]any

func init() {
	handler := sprout.New()
	handler.AddGroups(all.RegistryGroup())
	templateFuncs = handler.Build()
}

// Additional template functions.
// The last argument of funcs should be the primary one, so they can be used in pipelines.
var additionalTemplateFuncs = template.FuncMap{
	"system":    system,
	"collapse":  func(s any) string { return stringutil.CollapseSpaces(util.ToString(s)) },
	"stripTags": func(s any) string { return stringutil.StripTags(util.ToString(s)) },
}

// system runs cmdline (shell-like split, no shell) and returns its exit code, -1 if it can't run.
func system(cmdline any) int {
	args, err := shlex.Split(util.ToString(cmdline))
	if err != nil || len(args) == 0 {
		return -1
	}
	if err = exec.Command(args[0], args[1:]...).Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		return -1
	}
	return 0
}

// Template is a Go text template with an optional JavaScript "eval" func.
type Template struct {
	*template.Template
	jsvm *goja.Runtime
	mu   sync.Mutex
}

// Exec renders the template and returns the trim spaced result.
// If the template uses eval, map data is also exposed to JavaScript as "global".
func (t *Template) Exec(data any) (string, error) {
	if t.jsvm != nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		if m, ok := data.(map[string]any); ok {
			data = maps.Clone(m)
		}
		t.jsvm.Set("global", data)
	}
	var buf bytes.Buffer
	if err := t.Template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// GetTemplate parses tpl. If tpl starts with "@", the rest is a filename to read the template from.
// In strict mode, accessing a missing map key is an error.
func GetTemplate(tpl string, strict bool) (*Template, error) {
	if filename, ok := strings.CutPrefix(tpl, "@"); ok {
		contents, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		tpl = string(contents)
	}
	t := &Template{}
	instance := template.New("template").Funcs(templateFuncs).Funcs(additionalTemplateFuncs)
	if strict {
		instance = instance.Option("missingkey=error")
	}
	if strings.Contains(tpl, "eval") {
		t.jsvm = goja.New()
		new(require.Registry).Enable(t.jsvm)
		console.Enable(t.jsvm)
		instance = instance.Funcs(template.FuncMap{
			"eval": func(input any) any {
				v, err := Eval(t.jsvm, input)
				if err != nil {
					log.Printf("eval error: %v", err)
				}
				return v
			},
		})
	}
	parsed, err := instance.Parse(tpl)
	if err != nil {
		return nil, err
	}
	t.Template = parsed
	return t, nil
}

// Eval runs input (converted to string) as JavaScript code in vm and returns the exported value
// of the last expression.
func Eval(vm *goja.Runtime, input any) (any, error) {
	value, err := vm.RunString(util.ToString(input))
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}
