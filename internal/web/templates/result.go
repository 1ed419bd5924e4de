package templates

import (
	"context"
	"encoding/base64"
	"strconv"

	"github.com/JonMunkholm/csvconvert/internal/core"
	"github.com/a-h/templ"
)

// UploadResult renders the fragment shown after a file drop.
// Success shows the filename, the preview table and the start of the raw upload.
func UploadResult(res core.Result, maxRows int) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		if res.Outcome != core.OutcomeSuccess {
			h.child(ctx, ErrorAlert(res.Message, "", ""))
			return
		}

		h.raw(`<div class="result">`)
		h.raw(`<h5>`)
		h.text(res.Preview.Heading)
		h.raw(`</h5>`)
		h.child(ctx, DataTable(res.Preview.Dataset, maxRows))
		h.raw(`<hr><div class="raw-label">Raw Content</div><pre class="raw">`)
		h.text(res.Preview.RawExcerpt)
		h.raw(`</pre>`)
		h.child(ctx, DownloadTrigger(res.Download))
		h.raw(`</div>`)
	})
}

// FetchResult renders the fragment shown after a Convert click.
func FetchResult(res core.Result, maxRows int) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		if res.Outcome != core.OutcomeSuccess {
			h.child(ctx, ErrorAlert(res.Message, "", ""))
			return
		}

		h.raw(`<div class="result">`)
		h.child(ctx, DataTable(res.Preview.Dataset, maxRows))
		h.child(ctx, DownloadTrigger(res.Download))
		h.raw(`</div>`)
	})
}

// DataTable renders the header and up to maxRows rows of ds.
// maxRows <= 0 renders every row.
func DataTable(ds *core.Dataset, maxRows int) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		if ds == nil {
			return
		}

		rows := ds.Head(maxRows)
		if maxRows <= 0 {
			rows = ds.Rows()
		}

		h.raw(`<div class="table-wrap"><table class="data-table"><thead><tr>`)
		for _, col := range ds.Columns() {
			h.raw(`<th>`)
			h.text(col)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range rows {
			h.raw(`<tr>`)
			for _, cell := range row {
				h.raw(`<td>`)
				h.text(cell)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div>`)

		if len(rows) < ds.NumRows() {
			h.raw(`<p class="table-note">Showing `)
			h.text(strconv.Itoa(len(rows)))
			h.raw(` of `)
			h.text(strconv.Itoa(ds.NumRows()))
			h.raw(` rows. The download contains every row.</p>`)
		}
	})
}

// DownloadTrigger renders a hidden anchor carrying the CSV as a data URI.
// The page script clicks it as soon as the fragment is inserted.
func DownloadTrigger(d *core.Download) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		if d == nil {
			return
		}
		h.raw(`<a data-download hidden`)
		h.attr("href", "data:text/csv;charset=utf-8;base64,"+base64.StdEncoding.EncodeToString([]byte(d.Content)))
		h.attr("download", d.Filename)
		h.raw(`>`)
		h.text(d.Filename)
		h.raw(`</a>`)
	})
}

// ErrorAlert renders an error box. Action and code are optional.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="alert alert-error" role="alert"><p class="alert-message">`)
		h.text(message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p class="alert-action">`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<p class="alert-code">Code: `)
			h.text(code)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
	})
}
