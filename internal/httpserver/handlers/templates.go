package handlers

import (
	"html/template"
	"net/http"

	"github.com/SstealzZ/LinkStart/internal/logger"
)

// Server-rendered pages. The dashboard is a plain HTML grid with form
// buttons, no client-side framework.
var pages = template.Must(template.New("pages").Parse(`
{{define "head"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{if .AutoRefresh}}<meta http-equiv="refresh" content="15">{{end}}
<title>LinkStart</title>
<style>
body{font-family:system-ui,sans-serif;background:#0f1117;color:#e6e6e6;max-width:960px;margin:2rem auto;padding:0 1rem}
a{color:#7aa2f7}
.card{background:#1a1d27;border-radius:8px;padding:1rem;margin:.5rem 0}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(260px,1fr));gap:.75rem}
.status-active{color:#9ece6a}.status-inactive{color:#f7768e}.status-checking{color:#e0af68}
.error{color:#f7768e}
form.inline{display:inline}
input,button{font:inherit;padding:.4rem .6rem;border-radius:6px;border:1px solid #2a2e3f;background:#12141c;color:#e6e6e6}
button{cursor:pointer}
button.danger{border-color:#f7768e;color:#f7768e}
</style>
</head>
<body>{{end}}

{{define "foot"}}</body></html>{{end}}

{{define "login"}}{{template "head" .}}
<h1>LinkStart</h1>
<div class="card">
<h2>Sign in</h2>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/login">
<p><input name="username" placeholder="username" autocomplete="username" required></p>
<p><input name="password" type="password" placeholder="password" autocomplete="current-password" required></p>
<p><button type="submit">Login</button></p>
</form>
<p>No account? <a href="/register">Register</a></p>
</div>
{{template "foot" .}}{{end}}

{{define "register"}}{{template "head" .}}
<h1>LinkStart</h1>
<div class="card">
<h2>Create account</h2>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/register">
<p><input name="username" placeholder="username (3+ chars)" autocomplete="username" required></p>
<p><input name="email" type="email" placeholder="email" autocomplete="email" required></p>
<p><input name="password" type="password" placeholder="password (8+ chars)" autocomplete="new-password" required></p>
<p><button type="submit">Register</button></p>
</form>
<p>Already registered? <a href="/login">Login</a></p>
</div>
{{template "foot" .}}{{end}}

{{define "dashboard"}}{{template "head" .}}
<h1>LinkStart</h1>
<p>
Signed in as <strong>{{.Username}}</strong>
&middot; {{.Online}}/{{.Total}} online
<form class="inline" method="post" action="/refresh"><button type="submit">Refresh</button></form>
<form class="inline" method="post" action="/services/delete-mode">
<button type="submit" {{if .DeleteArmed}}class="danger"{{end}}>{{if .DeleteArmed}}Done{{else}}Edit{{end}}</button>
</form>
<form class="inline" method="post" action="/logout"><button type="submit">Logout</button></form>
</p>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<div class="grid">
{{range .Services}}
<div class="card">
<h3>{{.Name}}</h3>
<p class="status-{{.Status}}">{{.Status}}</p>
<p><a href="http://{{.PublicIP}}" rel="noreferrer">{{.PublicIP}}</a></p>
<p>{{.PrivateIP}}</p>
{{if $.DeleteArmed}}
<form method="post" action="/services/{{.ID}}/delete"><button type="submit" class="danger">Delete</button></form>
{{end}}
</div>
{{end}}
</div>
<div class="card">
<h2>Add service</h2>
<form method="post" action="/services">
<p><input name="name" placeholder="name" required></p>
<p><input name="public_ip" placeholder="public address" required></p>
<p><input name="private_ip" placeholder="private address" required></p>
<p><button type="submit">Add</button></p>
</form>
{{if .SeedImport}}
<form method="post" action="/services/import"><button type="submit">Import seed file</button></form>
{{end}}
</div>
{{template "foot" .}}{{end}}
`))

func render(w http.ResponseWriter, log logger.Logger, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		log.Error("template render failed", logger.String("page", name), logger.Error(err))
	}
}
