package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"catalogo/internal"
)

// Table writes the terminal rendition of a view: one numbered row per item
// followed by the page line.
func Table(w io.Writer, view internal.View) error {
	switch {
	case view.Status == internal.ViewLoadFailed:
		_, err := fmt.Fprintln(w, MsgLoadFailed)
		return err
	case len(view.Items) == 0:
		if _, err := fmt.Fprintln(w, MsgEmpty); err != nil {
			return err
		}
		if view.TotalPages == 0 {
			return nil
		}
		return pageLine(w, view)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "SKU", "Descrição", "Unidade", "Fonte"})
	table.SetAutoWrapText(false)
	for i, r := range view.Items {
		desc := r.ShortDescription
		if r.LongDescription != "" {
			desc += " | " + r.LongDescription
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.ID,
			desc,
			r.Unit,
			strings.ToUpper(string(r.Origin)),
		})
	}
	table.Render()

	return pageLine(w, view)
}

func pageLine(w io.Writer, view internal.View) error {
	_, err := fmt.Fprintf(w, "Página %d de %d (%d itens)\n", view.State.Page, view.TotalPages, view.Total)
	return err
}

// Facets writes the facet list, one display value per line.
func Facets(w io.Writer, facets []internal.FacetEntry) error {
	if len(facets) == 0 {
		_, err := fmt.Fprintln(w, "Nenhuma unidade disponível.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Unidade", "Chave"})
	for _, f := range facets {
		table.Append([]string{f.Display, f.Key})
	}
	table.Render()
	return nil
}

// Cart writes the cart entries.
func Cart(w io.Writer, entries []internal.CartEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "Carrinho vazio.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "SKU", "Nome", "Qtd"})
	for _, e := range entries {
		table.Append([]string{e.ID, e.SKU, e.Name, strconv.Itoa(e.Qty)})
	}
	table.Render()
	return nil
}
