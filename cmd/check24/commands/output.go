package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"check24-backend/lib/crawl"
	"check24-backend/lib/offers"
	"check24-backend/lib/rates"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJson  = "json"
	formatYaml  = "yaml"

	sortRate  = "rate"
	sortTitle = "title"
)

// outputFlags are the flags shared by every command that prints offers.
type outputFlags struct {
	format     string
	creditType string
	sortBy     string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", formatTable, "Output format: table, json or yaml.")
	cmd.Flags().StringVar(&f.creditType, "type", "", "Only show offers of this credit type.")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "Sort offers by rate or title, listing order when empty.")
}

func (f outputFlags) validate() error {
	switch f.format {
	case formatTable, formatJson, formatYaml:
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}
	switch f.sortBy {
	case "", sortRate, sortTitle:
	default:
		return fmt.Errorf("unknown sort key %q", f.sortBy)
	}
	_, err := f.filterType()
	return err
}

func (f outputFlags) filterType() (*offers.CreditType, error) {
	if f.creditType == "" {
		return nil, nil
	}
	t, err := offers.ParseCreditType(f.creditType)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// apply filters and sorts list, returning a new slice.
func (f outputFlags) apply(list []offers.CreditOffer) []offers.CreditOffer {
	creditType, _ := f.filterType()
	out := filterOffers(list, creditType)
	switch f.sortBy {
	case sortRate:
		sortByRate(out)
	case sortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	}
	return out
}

func filterOffers(list []offers.CreditOffer, creditType *offers.CreditType) []offers.CreditOffer {
	out := make([]offers.CreditOffer, 0, len(list))
	for _, o := range list {
		if creditType != nil && o.CreditType != *creditType {
			continue
		}
		out = append(out, o)
	}
	return out
}

// sortByRate orders offers by their lowest advertised rate, offers without
// a parseable rate go last in their original order.
func sortByRate(list []offers.CreditOffer) {
	type keyed struct {
		rate rates.Range
		ok   bool
	}
	keys := make([]keyed, len(list))
	indexed := make([]int, len(list))
	for i, o := range list {
		r, ok := rates.Parse(o.InterestRate)
		keys[i] = keyed{rate: r, ok: ok}
		indexed[i] = i
	}
	sort.SliceStable(indexed, func(a, b int) bool {
		ka, kb := keys[indexed[a]], keys[indexed[b]]
		if ka.ok != kb.ok {
			return ka.ok
		}
		if !ka.ok {
			return false
		}
		if !ka.rate.Min.Equal(kb.rate.Min) {
			return ka.rate.Min.LessThan(kb.rate.Min)
		}
		return ka.rate.Max.LessThan(kb.rate.Max)
	})

	sorted := make([]offers.CreditOffer, len(list))
	for i, idx := range indexed {
		sorted[i] = list[idx]
	}
	copy(list, sorted)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func renderOffers(w io.Writer, format string, list []offers.CreditOffer) error {
	switch format {
	case formatJson:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(list)
	case formatYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(list)
		if err != nil {
			return err
		}
		return enc.Close()
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Source", "Title", "Type", "Rate", "Period", "Max sum", "Grace", "Early repayment"})
	for _, o := range list {
		t.AppendRow(table.Row{
			o.Source,
			o.Title,
			o.CreditType.String(),
			o.InterestRate,
			o.CreditPeriod,
			o.MaxSum,
			o.GracePeriod,
			yesNo(o.EarlyRepayment),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 40},
		{Number: 6, Align: text.AlignRight},
	})
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d offers", len(list))})
	t.Render()
	return nil
}

// reportFailures prints every failed source and reports whether nothing
// succeeded.
func reportFailures(w io.Writer, results []crawl.Result) bool {
	failures := crawl.Failures(results)
	for _, r := range failures {
		fmt.Fprintf(w, "source %s failed: %v\n", r.Source, r.Err)
	}
	return len(results) > 0 && len(failures) == len(results)
}
