package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"check24-backend/lib/crawl"
	"check24-backend/lib/offers"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var sample = []offers.CreditOffer{
	{Title: "Потребительский кредит", CreditType: offers.Consumer, InterestRate: "от 24% до 28%", Source: "asaka"},
	{Title: "Автокредит", CreditType: offers.Auto, InterestRate: "22%", Source: "asaka"},
	{Title: "Кредит на обучение", CreditType: offers.Education, InterestRate: "по запросу", Source: "asia_alliance"},
	{Title: "Микрокредит", CreditType: offers.Micro, InterestRate: "22,5 %", Source: "asia_alliance"},
}

func titles(list []offers.CreditOffer) []string {
	out := make([]string, len(list))
	for i, o := range list {
		out[i] = o.Title
	}
	return out
}

func TestApply(t *testing.T) {
	cases := []struct {
		name   string
		flags  outputFlags
		expect []string
	}{
		{
			name:   "listing order",
			flags:  outputFlags{},
			expect: []string{"Потребительский кредит", "Автокредит", "Кредит на обучение", "Микрокредит"},
		},
		{
			name:   "by rate",
			flags:  outputFlags{sortBy: sortRate},
			expect: []string{"Автокредит", "Микрокредит", "Потребительский кредит", "Кредит на обучение"},
		},
		{
			name:   "by title",
			flags:  outputFlags{sortBy: sortTitle},
			expect: []string{"Автокредит", "Кредит на обучение", "Микрокредит", "Потребительский кредит"},
		},
		{
			name:   "by type",
			flags:  outputFlags{creditType: "auto"},
			expect: []string{"Автокредит"},
		},
		{
			name:   "type without matches",
			flags:  outputFlags{creditType: "mortgage"},
			expect: []string{},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			input := append([]offers.CreditOffer(nil), sample...)
			got := titles(test.flags.apply(input))
			if diff := cmp.Diff(test.expect, got); diff != "" {
				t.Fatal(diff)
			}
			require.Equal(t, sample, input, "apply must not reorder its input")
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, outputFlags{format: formatJson, sortBy: sortRate, creditType: "credit_card"}.validate())
	require.Error(t, outputFlags{format: "xml"}.validate())
	require.Error(t, outputFlags{format: formatTable, sortBy: "amount"}.validate())
	require.Error(t, outputFlags{format: formatTable, creditType: "leasing"}.validate())
}

func TestRenderOffers(t *testing.T) {
	list := sample[:2]

	var jsonOut bytes.Buffer
	require.NoError(t, renderOffers(&jsonOut, formatJson, list))
	var decoded []offers.CreditOffer
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &decoded))
	require.Equal(t, list, decoded)
	require.Contains(t, jsonOut.String(), `"credit_type": "consumer"`)

	var yamlOut bytes.Buffer
	require.NoError(t, renderOffers(&yamlOut, formatYaml, list))
	decoded = nil
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &decoded))
	require.Equal(t, list, decoded)
	require.Contains(t, yamlOut.String(), "credit_type: auto")

	var tableOut bytes.Buffer
	require.NoError(t, renderOffers(&tableOut, formatTable, list))
	require.Contains(t, tableOut.String(), "Автокредит")
	require.Contains(t, strings.ToLower(tableOut.String()), "2 offers")
}

func TestReportFailures(t *testing.T) {
	var out strings.Builder
	allFailed := reportFailures(&out, []crawl.Result{
		{Source: "asaka", Err: errors.New("unexpected status 500")},
		{Source: "asia_alliance", Offers: sample[2:]},
	})
	require.False(t, allFailed)
	require.Equal(t, "source asaka failed: unexpected status 500\n", out.String())

	out.Reset()
	allFailed = reportFailures(&out, []crawl.Result{
		{Source: "asaka", Err: errors.New("timeout")},
	})
	require.True(t, allFailed)

	require.False(t, reportFailures(&out, nil))
}
