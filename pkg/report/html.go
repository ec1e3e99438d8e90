package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/matzehuels/heritage/pkg/family"
)

var profileTmpl = template.Must(template.New("profile").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Member.Name}} (#{{.Member.SerNo}})</title></head>
<body>
<h1>{{.Member.Name}} <small>#{{.Member.SerNo}}</small></h1>
<h2>Basic Info</h2>
<dl>
{{- range .Fields}}
<dt>{{.Label}}</dt><dd>{{.Value}}</dd>
{{- end}}
</dl>
<h2>Family Info</h2>
<p>Spouse: {{if .Spouse}}{{.Spouse}}{{else}}-{{end}}</p>
<h2>Biography</h2>
{{if .Biography}}{{.Biography}}{{else}}<p>-</p>{{end}}
</body></html>
`))

type htmlField struct{ Label, Value string }

// ProfileHTML renders a member profile page. The biography is Markdown;
// raw HTML inside it is dropped.
func ProfileHTML(m family.Member, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)

	var bio bytes.Buffer
	if m.Biography != "" {
		if err := goldmark.Convert([]byte(m.Biography), &bio); err != nil {
			return nil, fmt.Errorf("render biography: %w", err)
		}
	}

	dash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	data := struct {
		Member    family.Member
		Fields    []htmlField
		Spouse    string
		Biography template.HTML
	}{
		Member: m,
		Fields: []htmlField{
			{"Gender", string(m.EffectiveGender())},
			{"Vansh", dash(m.Vansh)},
			{"Level", fmt.Sprint(m.Level)},
			{"Date of Birth", dash(m.DateOfBirth)},
			{"Occupation", dash(m.Occupation)},
			{"Place", dash(m.Place)},
			{"Sons/Daughters", fmt.Sprint(m.SonDaughterCount)},
		},
		Spouse:    spouseLabel(m, cfg.spouse),
		Biography: template.HTML(bio.String()),
	}

	var out bytes.Buffer
	if err := profileTmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("render profile: %w", err)
	}
	return out.Bytes(), nil
}
