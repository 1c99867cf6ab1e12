// Command tuples generates the fixed-arity PackN/UnpackN helpers of
// package keys.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"log/slog"
	"os"
	"strings"
	"text/template"
)

const header = `// Code generated by internal/gen/tuples; DO NOT EDIT.

package keys
`

var tmpl = template.Must(template.New("arity").Parse(`
// Pack{{.N}} encodes a {{.N}}-tuple.
func Pack{{.N}}[{{.TypeParams}} Field]({{.Params}}) Key {
	buf := make([]byte, 0, defaultKeyCap)
{{- range .Idx}}
	buf = appendField(buf, v{{.}})
{{- end}}
	return Key(buf)
}

// Unpack{{.N}} decodes a {{.N}}-tuple. Bytes after the last field are ignored.
func Unpack{{.N}}[{{.TypeParams}} Field](k Key) ({{.Results}}, err error) {
	d := NewDecoder(k)
{{- range .Idx}}
	if v{{.}}, err = decodeField[T{{.}}](d, {{.}}); err != nil {
		return
	}
{{- end}}
	return
}
`))

type arity struct {
	N          int
	Idx        []int
	TypeParams string
	Params     string
	Results    string
}

func newArity(n int) arity {
	a := arity{N: n}
	tps := make([]string, n)
	params := make([]string, n)
	results := make([]string, n)
	for i := 0; i < n; i++ {
		a.Idx = append(a.Idx, i)
		tps[i] = fmt.Sprintf("T%d", i)
		params[i] = fmt.Sprintf("v%d T%d", i, i)
		results[i] = fmt.Sprintf("v%d T%d", i, i)
	}
	a.TypeParams = strings.Join(tps, ", ")
	a.Params = strings.Join(params, ", ")
	a.Results = strings.Join(results, ", ")
	return a
}

func main() {
	out := flag.String("o", "tuples_gen.go", "output file")
	maxArity := flag.Int("max", 15, "largest tuple arity")
	flag.Parse()

	var buf bytes.Buffer
	buf.WriteString(header)
	for n := 1; n <= *maxArity; n++ {
		if err := tmpl.Execute(&buf, newArity(n)); err != nil {
			slog.Error("execute template", "arity", n, "error", err)
			os.Exit(1)
		}
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		slog.Error("format generated source", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		slog.Error("write output", "path", *out, "error", err)
		os.Exit(1)
	}
}
