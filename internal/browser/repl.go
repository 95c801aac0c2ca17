package browser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"

	"catalogo/internal"
	"catalogo/internal/catalog"
	"catalogo/internal/pipeline"
	"catalogo/internal/render"
	"catalogo/internal/util"
)

const maxSuggestions = 3

type Cart interface {
	Add(ctx context.Context, id, sku, name string) ([]internal.CartEntry, error)
	List(ctx context.Context) ([]internal.CartEntry, error)
}

// REPL drives a Session from line-oriented input. Plain text searches; lines
// starting with "/" are commands.
type REPL struct {
	session *Session
	facets  []internal.FacetEntry
	cart    Cart
	out     io.Writer
	log     zerolog.Logger
	view    internal.View
}

func NewREPL(session *Session, facets []internal.FacetEntry, cart Cart, out io.Writer, log zerolog.Logger) *REPL {
	return &REPL{session: session, facets: facets, cart: cart, out: out, log: log}
}

func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	r.show(r.session.View())
	if r.session.Failed() {
		return nil
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := r.handle(ctx, scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

func (r *REPL) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		r.show(r.session.Dispatch(Search(line)))
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/sair":
		return true
	case "/q":
		r.show(r.session.Dispatch(Search(arg)))
	case "/unit":
		r.selectFacet(arg)
	case "/page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(r.out, "página inválida: %q\n", arg)
			return false
		}
		r.show(r.session.Dispatch(GoToPage(n)))
	case "/next":
		if !r.view.HasNext() {
			fmt.Fprintln(r.out, "Já está na última página.")
			return false
		}
		r.show(r.session.Dispatch(GoToPage(r.session.State().Page + 1)))
	case "/prev":
		if !r.view.HasPrev() {
			fmt.Fprintln(r.out, "Já está na primeira página.")
			return false
		}
		r.show(r.session.Dispatch(GoToPage(r.session.State().Page - 1)))
	case "/add":
		r.addToCart(ctx, arg)
	case "/cart":
		r.showCart(ctx)
	case "/facets":
		_ = render.Facets(r.out, r.facets)
	case "/help":
		r.help()
	default:
		fmt.Fprintf(r.out, "comando desconhecido: %s\n", cmd)
		r.help()
	}
	return false
}

func (r *REPL) selectFacet(value string) {
	if pipeline.IsAnyFacet(value) {
		r.show(r.session.Dispatch(Facet(internal.FacetAll)))
		return
	}
	if f, ok := catalog.FindFacet(r.facets, value); ok {
		r.show(r.session.Dispatch(Facet(f.Display)))
		return
	}

	fmt.Fprintf(r.out, "Unidade desconhecida: %s\n", value)
	if s := SuggestFacets(r.facets, value); len(s) > 0 {
		fmt.Fprintf(r.out, "Você quis dizer: %s?\n", strings.Join(s, ", "))
	}
}

func (r *REPL) addToCart(ctx context.Context, arg string) {
	if r.cart == nil {
		fmt.Fprintln(r.out, "Carrinho indisponível.")
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(r.view.Items) {
		fmt.Fprintf(r.out, "item inválido: %q\n", arg)
		return
	}
	item := r.view.Items[n-1]
	entries, err := r.cart.Add(ctx, item.ID, item.ID, item.ShortDescription)
	if err != nil {
		r.log.Error().Err(err).Str("id", item.ID).Msg("cart add failed")
		fmt.Fprintf(r.out, "erro ao adicionar: %v\n", err)
		return
	}
	for _, e := range entries {
		if e.ID == item.ID {
			fmt.Fprintf(r.out, "Adicionado: %s (qtd %d)\n", util.FirstNonEmpty(e.Name, e.ID), e.Qty)
		}
	}
}

func (r *REPL) showCart(ctx context.Context) {
	if r.cart == nil {
		fmt.Fprintln(r.out, "Carrinho indisponível.")
		return
	}
	entries, err := r.cart.List(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "erro ao ler carrinho: %v\n", err)
		return
	}
	_ = render.Cart(r.out, entries)
}

func (r *REPL) show(v internal.View) {
	r.view = v
	if err := render.Table(r.out, v); err != nil {
		r.log.Error().Err(err).Msg("render failed")
	}
}

func (r *REPL) help() {
	fmt.Fprintln(r.out, "comandos: <texto> | /q <texto> | /unit <unidade|todas> | /page N | /next | /prev | /add N | /cart | /facets | /quit")
}

// SuggestFacets returns the facet display values closest to an unknown
// selector value, best match first.
func SuggestFacets(facets []internal.FacetEntry, value string) []string {
	targets := make([]string, 0, len(facets))
	for _, f := range facets {
		targets = append(targets, f.Display)
	}

	ranks := fuzzy.RankFindNormalizedFold(value, targets)
	sort.Sort(ranks)

	out := []string{}
	for _, rk := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, rk.Target)
	}
	if len(out) > 0 {
		return out
	}

	// No subsequence match: fall back to edit distance on the normalized keys.
	key := util.Normalize(value)
	type scored struct {
		display string
		dist    int
	}
	var near []scored
	for _, f := range facets {
		if d := fuzzy.LevenshteinDistance(key, f.Key); d <= 2 {
			near = append(near, scored{f.Display, d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
	for _, c := range near {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.display)
	}
	return out
}
