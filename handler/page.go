package handler

import (
	"html/template"
	"log"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

var loginPage = template.Must(template.New("login").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Login</title>
</head>
<body>
<main>
<h1>Login</h1>
<p>Metrics dashboard access</p>
<form id="login" data-next="{{.Next}}">
<label>Username <input name="user" autocomplete="username" autofocus required></label>
<label>Password <input name="pass" type="password" autocomplete="current-password" required></label>
<p id="error" role="alert" hidden></p>
<button type="submit">Sign in</button>
<a href="{{.Next}}">Back</a>
</form>
<p><small>Session is stored in an HTTP-only cookie.</small></p>
</main>
<script>
document.getElementById("login").addEventListener("submit", async function (e) {
  e.preventDefault();
  var form = e.target, errEl = document.getElementById("error");
  errEl.hidden = true;
  var res = await fetch({{.Action}}, {
    method: "POST",
    headers: {"Content-Type": "application/json", "Accept": "application/json"},
    body: JSON.stringify({user: form.user.value, pass: form.pass.value, next: form.dataset.next})
  });
  var body = await res.json().catch(function () { return {}; });
  if (!res.ok) {
    errEl.textContent = body.error || ("Login failed: " + res.status);
    errEl.hidden = false;
    return;
  }
  window.location.href = body.redirectTo || "/dashboard";
});
</script>
</body>
</html>
`))

type loginPageData struct {
	Next   string
	Action string
}

// LoginPage renders the login form. The next query parameter is sanitized
// before it is echoed into the page.
func LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := loginPageData{
			Next:   goSession.SafeRedirectPath(r.URL.Query().Get("next"), goSession.DefaultRedirectPath),
			Action: LoginRoute,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := loginPage.Execute(w, data); err != nil {
			log.Printf("goSession: render login page: %v", err)
		}
	}
}
