package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/csv3d/internal/core"
)

// IndexPage is the upload form. maxSize is the display form of the upload limit.
func IndexPage(maxSize string) templ.Component {
	return Layout("Upload CSV", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Upload a CSV file</h1>`)
		h.raw(`<p class="muted">Files up to `)
		h.text(maxSize)
		h.raw(` with at least three numeric columns can be plotted.</p>`)
		h.raw(`<form id="upload" method="post" action="/api/sessions" enctype="multipart/form-data">`)
		h.raw(`<input type="file" name="file" accept=".csv,.txt,text/csv,text/plain" required> `)
		h.raw(`<label>Keep as text: <input type="text" name="textColumns" placeholder="zip, id"></label> `)
		h.raw(`<button type="submit">Upload</button></form><div id="result"></div>`)
		h.raw(uploadScript)
		return h.err
	}))
}

// SessionPage summarizes a session: file, columns, mapping and a row preview.
func SessionPage(view core.SessionView, rows []core.RowObject) templ.Component {
	return Layout(view.FileName, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`)
		h.text(view.FileName)
		h.raw(`</h1><p class="muted">`)
		h.textf("%s, %d rows, %d columns", view.FileSize, view.RowCount, len(view.Columns))
		h.raw(`</p>`)

		if view.Plottable {
			h.raw(`<p class="ok">Ready to plot.</p>`)
		} else {
			h.render(ctx, ErrorAlert("This dataset cannot be plotted", strings.Join(view.Problems, ". "), ""))
		}

		h.raw(`<h2>Mapping</h2><table><tr><th>x</th><th>y</th><th>z</th><th>color</th></tr><tr>`)
		for _, col := range []string{view.Mapping.X, view.Mapping.Y, view.Mapping.Z, view.Mapping.Color} {
			h.raw(`<td>`)
			if col == "" {
				h.raw(`<span class="muted">unset</span>`)
			} else {
				h.text(col)
			}
			h.raw(`</td>`)
		}
		h.raw(`</tr></table>`)

		h.render(ctx, ColumnTable(view.Columns))
		h.render(ctx, RowTable(rows))
		return h.err
	}))
}

// ColumnTable lists inferred column metadata.
func ColumnTable(columns []core.ColumnInfo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h2>Columns</h2><table><tr><th>Name</th><th>Type</th><th>Min</th><th>Max</th><th>Unique</th><th>Samples</th></tr>`)
		for _, c := range columns {
			h.raw(`<tr><td>`)
			h.text(c.Name)
			h.raw(`</td><td>`)
			h.text(string(c.Type))
			if c.LeadingZeros {
				h.raw(` <span class="muted">(leading zeros)</span>`)
			}
			h.raw(`</td><td>`)
			h.text(formatBound(c.MinValue))
			h.raw(`</td><td>`)
			h.text(formatBound(c.MaxValue))
			h.raw(`</td><td>`)
			h.raw(itoa(c.UniqueCount))
			h.raw(`</td><td>`)
			samples := make([]string, len(c.SampleValues))
			for i, v := range c.SampleValues {
				samples[i] = v.String()
			}
			h.text(strings.Join(samples, ", "))
			h.raw(`</td></tr>`)
		}
		h.raw(`</table>`)
		return h.err
	})
}

// RowTable renders a preview of rows.
func RowTable(rows []core.RowObject) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(rows) == 0 {
			return nil
		}
		h := &html{w: w}
		h.raw(`<h2>Preview</h2><table><tr>`)
		for _, name := range rows[0].Names {
			h.raw(`<th>`)
			h.text(name)
			h.raw(`</th>`)
		}
		h.raw(`</tr>`)
		for _, row := range rows {
			h.raw(`<tr>`)
			for _, v := range row.Values {
				h.raw(`<td>`)
				if v.IsNull() {
					h.raw(`<span class="muted">null</span>`)
				} else {
					h.text(v.String())
				}
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</table>`)
		return h.err
	})
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

const uploadScript = `<script>
document.getElementById("upload").addEventListener("submit", async (e) => {
  e.preventDefault();
  const res = await fetch("/api/sessions", {method: "POST", body: new FormData(e.target)});
  const body = await res.json();
  if (res.ok) { window.location = "/sessions/" + body.id; return; }
  const out = document.getElementById("result");
  out.className = "alert";
  out.textContent = body.message + " (" + body.code + "). " + (body.action || "");
});
</script>`
