// Package templates holds the HTML pages of the web console.
package templates

import (
	"embed"
	"html/template"

	"freeswitch-admin-console/internal/freeswitch"
)

//go:embed *.html
var files embed.FS

// Parse parses every page with the helper functions they use
func Parse() (*template.Template, error) {
	return template.New("console").Funcs(Funcs()).ParseFS(files, "*.html")
}

// Funcs are the helpers available to every page
func Funcs() template.FuncMap {
	return template.FuncMap{
		"deref": deref,
		"on":    on,
		"field": field,
	}
}

// deref renders an optional value, empty when unset
func deref(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case *string:
		if x != nil {
			return *x
		}
	case freeswitch.Flag:
		return string(x)
	case *freeswitch.Flag:
		if x != nil {
			return string(*x)
		}
	}
	return ""
}

// on reports whether a string-encoded flag is "true"
func on(v interface{}) bool {
	return deref(v) == string(freeswitch.FlagTrue)
}

// field pairs a form field name with its current value for sub-templates
func field(name string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"Name": name, "Value": value}
}
