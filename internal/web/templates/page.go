package templates

import (
	"context"

	"github.com/a-h/templ"
)

// PageParams configures the dropdowns on the API tab.
type PageParams struct {
	Separators       []string
	QuotingOptions   []string
	DefaultSeparator string
	DefaultQuoting   string
}

// Page renders the full converter page with both tabs.
func Page(p PageParams) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>Convert to CSV</title>`)
		h.raw(`<link rel="stylesheet" href="/static/style.css">`)
		h.raw(`<script src="/static/app.js" defer></script>`)
		h.raw(`</head><body><main class="container">`)
		h.raw(`<h1>Convert to CSV</h1>`)

		h.raw(`<nav class="tabs" role="tablist">`)
		h.raw(`<button type="button" role="tab" class="tab active" data-tab="tab-parquet" aria-selected="true">Parquet to CSV</button>`)
		h.raw(`<button type="button" role="tab" class="tab" data-tab="tab-api" aria-selected="false">API to CSV</button>`)
		h.raw(`</nav>`)

		h.raw(`<section id="tab-parquet" class="tab-panel" role="tabpanel">`)
		h.raw(`<h2>Convert parquet to csv</h2>`)
		h.raw(`<form id="upload-form" action="/convert/upload" method="post">`)
		h.raw(`<label id="upload-data" class="dropzone">`)
		h.raw(`<input type="file" id="upload-file" name="file" hidden>`)
		h.raw(`<span>Drag and Drop or <a href="#" id="upload-browse">Select File</a></span>`)
		h.raw(`</label></form>`)
		h.raw(`<div id="output-data-upload" class="output" aria-live="polite"></div>`)
		h.raw(`</section>`)

		h.raw(`<section id="tab-api" class="tab-panel" role="tabpanel" hidden>`)
		h.raw(`<h2>Convert API to CSV</h2>`)
		h.raw(`<form id="api-form" action="/convert/api" method="post">`)
		h.raw(`<input type="hidden" name="n_clicks" id="n-clicks" value="0">`)
		h.raw(`<label for="input-url">URL</label>`)
		h.raw(`<input type="url" id="input-url" name="url" placeholder="https://example.com/data.csv">`)
		h.child(ctx, selectBox("separator", "Separator", p.Separators, p.DefaultSeparator))
		h.child(ctx, selectBox("quoting", "Quoting", p.QuotingOptions, p.DefaultQuoting))
		h.raw(`<button type="submit" id="convert-button">Convert</button>`)
		h.raw(`</form>`)
		h.raw(`<div id="output-data-api" class="output" aria-live="polite"></div>`)
		h.raw(`</section>`)

		h.raw(`</main></body></html>`)
	})
}

func selectBox(name, label string, options []string, selected string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<label`)
		h.attr("for", "select-"+name)
		h.raw(`>`)
		h.text(label)
		h.raw(`</label><select`)
		h.attr("id", "select-"+name)
		h.attr("name", name)
		h.raw(`>`)
		for _, opt := range options {
			h.raw(`<option`)
			h.attr("value", opt)
			if opt == selected {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(opt)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
	})
}
