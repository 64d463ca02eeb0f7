package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var tmpl = template.Must(template.New("notifications").Parse(`
{{define "welcome"}}<html><body>
<h2>Welcome to Salesloop{{with .Name}}, {{.}}{{end}}!</h2>
<p>Your account is ready. Add your first lead to get the pipeline moving.</p>
</body></html>{{end}}

{{define "lead_converted"}}<html><body>
<h2>Hi{{with .Name}} {{.}}{{end}},</h2>
<p>Thanks for your interest. We have moved you into our contact book and a deal can now be opened for you.</p>
</body></html>{{end}}
`))

var subjects = map[string]string{
	TemplateWelcome:       "Welcome to Salesloop",
	TemplateLeadConverted: "You are now a Salesloop contact",
}

// Render produces subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
