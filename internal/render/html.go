package render

import (
	"html/template"
	"io"
	"strings"

	"catalogo/internal"
	"catalogo/internal/pipeline"
	"catalogo/internal/util"
)

const (
	MsgEmpty      = "Nenhum produto encontrado."
	MsgLoadFailed = "Erro ao carregar dados."
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"upper": func(o internal.Origin) string { return strings.ToUpper(string(o)) },
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Catálogo de Produtos</title>
</head>
<body>
<header>
<form id="filtros" method="get" action="/">
<input type="search" id="busca" name="q" value="{{.Search}}" placeholder="Buscar produto...">
<select id="filtroUnid" name="unit">
<option value="todas"{{if .AllSelected}} selected{{end}}>Todas as Unidades</option>
{{- range .Facets}}
<option value="{{.Display}}"{{if .Selected}} selected{{end}}>{{.Display}}</option>
{{- end}}
</select>
<button type="submit">Filtrar</button>
</form>
</header>
<main>
{{- if .LoadFailed}}
<p class="erro">{{.LoadFailedMsg}}</p>
{{- else if not .Items}}
<p class="vazio">{{.EmptyMsg}}</p>
{{- else}}
<section class="grid-produtos">
{{- range .Items}}
<article class="produto-card">
<div class="produto-info">
<h3>{{.ShortDescription}}</h3>
{{- if .LongDescription}}
<p class="desc-longa">{{.LongDescription}}</p>
{{- end}}
<p class="produto-id"><strong>SKU:</strong> {{.ID}}</p>
<p class="produto-unid"><strong>Unidade:</strong> {{.Unit}}</p>
<p class="produto-origem"><em>Fonte: {{upper .Origin}}</em></p>
</div>
</article>
{{- end}}
</section>
{{- end}}
</main>
{{- if .ShowPager}}
<div id="paginacao" class="paginacao-botoes">
<button id="anterior" type="submit" form="filtros" name="page" value="{{.PrevPage}}"{{if not .HasPrev}} disabled{{end}}>⬅ Anterior</button>
<span>Página {{.Page}} de {{.TotalPages}}</span>
<button id="proxima" type="submit" form="filtros" name="page" value="{{.NextPage}}"{{if not .HasNext}} disabled{{end}}>Próxima ➡</button>
</div>
{{- end}}
</body>
</html>
`))

type facetOption struct {
	Display  string
	Selected bool
}

type pageData struct {
	Search        string
	AllSelected   bool
	Facets        []facetOption
	Items         []internal.Record
	LoadFailed    bool
	LoadFailedMsg string
	EmptyMsg      string
	ShowPager     bool
	Page          int
	TotalPages    int
	HasPrev       bool
	HasNext       bool
	PrevPage      int
	NextPage      int
}

// HTML writes the full catalog page for a view. Every record and facet value
// goes through html/template escaping.
func HTML(w io.Writer, view internal.View) error {
	data := pageData{
		Search:        view.State.Search,
		AllSelected:   pipeline.IsAnyFacet(view.State.Facet),
		Items:         view.Items,
		LoadFailed:    view.Status == internal.ViewLoadFailed,
		LoadFailedMsg: MsgLoadFailed,
		EmptyMsg:      MsgEmpty,
		ShowPager:     view.Status != internal.ViewLoadFailed && view.TotalPages > 0,
		Page:          view.State.Page,
		TotalPages:    view.TotalPages,
		HasPrev:       view.HasPrev(),
		HasNext:       view.HasNext(),
		PrevPage:      view.State.Page - 1,
		NextPage:      view.State.Page + 1,
	}

	selected := util.Normalize(view.State.Facet)
	for _, f := range view.Facets {
		data.Facets = append(data.Facets, facetOption{
			Display:  f.Display,
			Selected: !data.AllSelected && f.Key == selected,
		})
	}

	return pageTemplate.Execute(w, data)
}
