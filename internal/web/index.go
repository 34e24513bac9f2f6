package web

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// indexPage renders the single-page UI: a text box, one checkbox per
// registered operation and a results table filled in by /api/analyze.
func indexPage(operations []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, indexHead); err != nil {
			return err
		}
		for _, op := range operations {
			name := templ.EscapeString(op)
			if _, err := io.WriteString(w,
				`<label><input type="checkbox" name="op" value="`+name+`" checked> `+name+`</label>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, indexTail)
		return err
	})
}

// handleIndex serves the HTML UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	templ.Handler(indexPage(s.service.Operations())).ServeHTTP(w, r)
}

const indexHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>textflow</title>
<style>
body{font-family:system-ui,sans-serif;max-width:60rem;margin:2rem auto;padding:0 1rem}
textarea{width:100%;min-height:10rem}
label{display:inline-block;margin:.25rem 1rem .25rem 0}
table{border-collapse:collapse;width:100%;margin-top:1rem}
td,th{border:1px solid #ccc;padding:.5rem;text-align:left;vertical-align:top;white-space:pre-wrap}
.fail{color:#b00}
</style>
</head>
<body>
<h1>textflow</h1>
<form id="analyze">
<textarea name="text" placeholder="Paste text, or CSV starting with id,..."></textarea>
<fieldset><legend>Operations</legend>`

const indexTail = `</fieldset>
<button type="submit">Run all</button>
<button type="button" id="export" disabled>Export CSV</button>
</form>
<p id="stats"></p>
<table id="results" hidden><thead><tr><th>Operation</th><th>Output</th></tr></thead><tbody></tbody></table>
<script>
let last = [];
const form = document.getElementById("analyze");
form.addEventListener("submit", async (e) => {
  e.preventDefault();
  const ops = [...form.querySelectorAll("input[name=op]:checked")].map(i => i.value);
  const res = await fetch("/api/analyze", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({text: form.text.value, operations: ops}),
  });
  const body = await res.json();
  const tbody = document.querySelector("#results tbody");
  tbody.replaceChildren();
  if (!res.ok) {
    document.getElementById("stats").textContent = body.message || body.error;
    return;
  }
  last = body.results;
  for (const r of last) {
    const tr = document.createElement("tr");
    if (!r.success) tr.className = "fail";
    for (const v of [r.title, r.output]) {
      const td = document.createElement("td");
      td.textContent = v;
      tr.appendChild(td);
    }
    tbody.appendChild(tr);
  }
  const s = body.stats;
  document.getElementById("stats").textContent =
    s.total_chunks + " chunk(s), " + s.failed + " failed, " + s.processing_time.toFixed(3) + "s";
  document.getElementById("results").hidden = false;
  document.getElementById("export").disabled = false;
});
document.getElementById("export").addEventListener("click", async () => {
  const res = await fetch("/api/export", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({results: last}),
  });
  const url = URL.createObjectURL(await res.blob());
  const a = document.createElement("a");
  a.href = url;
  a.download = "report.csv";
  a.click();
  URL.revokeObjectURL(url);
});
</script>
</body>
</html>
`
