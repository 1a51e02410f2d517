package report

import (
	"html/template"
	"io"
)

var htmlTmpl = template.Must(template.New("report").Parse(`<html><body>
<h2>Jenkins Daily Report</h2>
<table border="1" cellpadding="6" cellspacing="0">
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .Fields}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</body></html>
`))

// WriteHTML writes rows as a plain bordered HTML table. The colorized
// variant used for email bodies lives in internal/mail; this one is the
// attachment/artifact form.
func WriteHTML(w io.Writer, rows []Row) error {
	return htmlTmpl.Execute(w, struct {
		Header []string
		Rows   []Row
	}{Header, rows})
}
