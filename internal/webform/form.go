package webform

import "html/template"

var formTemplate = template.Must(template.New("form").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>TOPSIS Web Service</title>
<style>
body{font-family:-apple-system,"Segoe UI",Helvetica,Arial,sans-serif;max-width:640px;margin:2rem auto;color:#1c1917;}
label{display:block;margin-bottom:1rem;}
input[type=text],input[type=email]{width:100%;padding:0.3rem;}
.message{padding:0.6rem;border-radius:4px;background:#f1f5f9;}
.message.error{background:#fee2e2;color:#7f1d1d;}
</style>
</head>
<body>
<h2>TOPSIS Web Service</h2>
<form method="post" enctype="multipart/form-data">
  <label>Input CSV File: <input type="file" name="input_file" accept=".csv,.tsv,text/csv" required></label>
  <label>Weights: <input type="text" name="weights" required placeholder="1,1,1,1" value="{{.Weights}}"></label>
  <label>Impacts: <input type="text" name="impacts" required placeholder="+,+,-,+" value="{{.Impacts}}"></label>
  <label>Email: <input type="email" name="email" required value="{{.Email}}"></label>
  <input type="submit" value="Submit">
</form>
{{if .Message}}<p class="message{{if .IsError}} error{{end}}">{{.Message}}</p>{{end}}
</body>
</html>
`))

type formView struct {
	Weights string
	Impacts string
	Email   string
	Message string
	IsError bool
}
