package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitalpark/fleet-engine/pkg/config"
)

const (
	fixtureLegacy = `O.S;Tipo;Modelo;Marca;Data Início SE;Data Conclusão SE;Fornecedor;Custo;TAG;Patrimônio
5001;Monitor;X200;Acme;10/01/2020;20/01/2020;Acme Serviços;R$ 1.000,00;;A1
5002;Monitor;X200;Acme;05/03/2022;15/03/2022;Acme Serviços;R$ 2.000,00;;a-1
5003;Bomba;B1;Beta;01/02/2021;;Beta Tec;not-a-number;B7;
1234;Monitor;X200;Acme;01/04/2021;10/04/2021;Acme Serviços;R$ 50,00;T001;
6001;Raio-X;R9;Gama;01/05/2021;05/05/2021;Gama;R$ 300,00;;
`
	fixtureRecent = `O.S;Tipo;Modelo;Marca;Abertura;Fechamento;"Serviço;Assistência";Custo;Identificador (Patrimônio, ID, TAG)
7001;Monitor;X200;Acme;2024-06-01;2024-06-10;Acme Serviços;R$ 500,00;A1
1234;Monitor;X200;Acme;2024-07-01;;Acme Serviços;R$ 75,00;T002
8001;Ultrassom;U3;Delta;2024-08-01;;Delta Med;R$ 900,00;ZZ99
`
	fixtureCriticality = `linha de titulo
;;;
;;;
;;;
;;;
Peso;Tipo Equipamento;Modelo;Fornecedor
3;Monitor;X200;Acme
2;Bomba;B1;Beta
`
	fixtureInventory = `Identificador;Tipo Equipamento;Modelo;Marca;Localização;Aquisição;Valor (R$)
A1;Monitor;X200;Acme;UTI 1;15/06/2014;R$ 50.000,00
T001;Monitor;X200;Acme;UTI 2;01/01/2019;R$ 45.000,00
T002;Monitor;X200;Acme;UTI 3;01/01/2023;R$ 45.000,00
B7;Bomba;B1;Beta;Enfermaria;10/10/2021;R$ 8.000,00
C5;Ventilador;V9;Épsilon;CTI;;
`
)

func writeFixtures(t *testing.T) config.SourcesConfig {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	return config.SourcesConfig{
		LegacyOrdersPath: write("legacy.csv", fixtureLegacy),
		RecentOrdersPath: write("recent.csv", fixtureRecent),
		CriticalityPath:  write("criticality.csv", fixtureCriticality),
		InventoryPath:    write("inventory.csv", fixtureInventory),
	}
}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := &config.Config{
		Sources: writeFixtures(t),
		Scoring: config.ScoringConfig{
			WeightCriticality: 0.40,
			WeightCost:        0.25,
			WeightAge:         0.20,
			WeightFrequency:   0.15,
		},
	}
	return NewPipeline(cfg, zap.NewNop())
}

func TestPipelineRun(t *testing.T) {
	result, err := testPipeline(t).Run(context.Background(), testNow)
	require.NoError(t, err)

	summary := result.Summary
	assert.Equal(t, 5, summary.Assets)
	// 5 legacy raw - 1 malformed + 3 recent raw = 7 unified orders.
	assert.Equal(t, 7, summary.Orders)
	assert.Equal(t, 1, summary.MalformedRows["legacy_orders"])
	assert.Equal(t, 1, summary.UnmatchedOrders, "order 6001 has no identifier")
	assert.Equal(t, 1, summary.OrphanedOrders, "ZZ99 is not in the inventory")
	assert.Zero(t, summary.DuplicateOrders, "order 1234 resolves to different identifiers")
	assert.Equal(t, 2, summary.NeverServicedAssets, "B7's only order was malformed; C5 has none")
	assert.Equal(t, 1, summary.UnweightedAssets, "Ventilador V9 has no criticality entry")
	assert.Equal(t, 1, summary.AssetsWithoutAcquisitionDate)

	// Conservation: matched + unmatched + orphaned + duplicates = raw - malformed.
	matched := 0
	for _, a := range result.Assets {
		matched += a.OrderCount
	}
	rawOrderRows := 5 + 3
	malformedOrderRows := summary.MalformedRows["legacy_orders"] + summary.MalformedRows["recent_orders"]
	assert.Equal(t, rawOrderRows-malformedOrderRows,
		matched+summary.UnmatchedOrders+summary.OrphanedOrders+summary.DuplicateOrders)

	// A1: two legacy orders (1000 + 2000, via Patrimônio) and one recent
	// (500) all resolve to the same asset.
	var a1Found bool
	for _, a := range result.Assets {
		if a.Identifier == "A1" {
			a1Found = true
			assert.Equal(t, 3, a.OrderCount)
			assert.Equal(t, "3500", a.TotalExternalCost.String())
			assert.Equal(t, "2024-06-10", a.LastServiceAt.Format("2006-01-02"))
			assert.Equal(t, 3, a.CriticalityWeight)
		}
	}
	require.True(t, a1Found, "asset A1 missing from consolidated output")

	// Ranks are a dense permutation in output order.
	for i, a := range result.Assets {
		assert.Equal(t, i+1, a.PriorityRank)
		assert.GreaterOrEqual(t, a.PriorityScore, 0.0)
		assert.LessOrEqual(t, a.PriorityScore, 100.0)
	}
}

func TestPipelineRun_Idempotent(t *testing.T) {
	p := testPipeline(t)

	first, err := p.Run(context.Background(), testNow)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), testNow)
	require.NoError(t, err)

	require.Equal(t, len(first.Assets), len(second.Assets))
	for i := range first.Assets {
		assert.Equal(t, first.Assets[i].Identifier, second.Assets[i].Identifier)
		assert.Equal(t, first.Assets[i].PriorityScore, second.Assets[i].PriorityScore)
		assert.Equal(t, first.Assets[i].PriorityRank, second.Assets[i].PriorityRank)
		assert.True(t, first.Assets[i].TotalExternalCost.Equal(second.Assets[i].TotalExternalCost))
	}
	assert.Equal(t, len(first.UnifiedOrders), len(second.UnifiedOrders))
}

func TestPipelineRun_MissingSourceFails(t *testing.T) {
	cfg := &config.Config{
		Sources: config.SourcesConfig{
			LegacyOrdersPath: filepath.Join(t.TempDir(), "missing.csv"),
		},
		Scoring: config.ScoringConfig{WeightCriticality: 1},
	}
	_, err := NewPipeline(cfg, zap.NewNop()).Run(context.Background(), testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}
