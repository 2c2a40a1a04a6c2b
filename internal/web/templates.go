package web

import "html/template"

var demoPage = template.Must(template.New("demo").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>PDF demo</title>
</head>
<body>
<h1>PDF demo</h1>
{{range .}}<section>
<h2>{{.Title}}</h2>
<iframe id="{{.ID}}" width="600" height="775" title="{{.Title}}" src="{{.Src}}"></iframe>
</section>
{{end}}</body>
</html>
`))

var manifestPage = template.Must(template.New("manifest").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Assets</title>
</head>
<body>
{{range .}}<img class="lazy-asset" src="/{{.}}" alt="{{.}}">
{{end}}</body>
</html>
`))

type frame struct {
	ID    string
	Title string
	Src   template.URL
}
