package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/inventory"
	"github.com/montesim/montesim/sim/queue"
	"github.com/montesim/montesim/sim/randgen"
	"github.com/montesim/montesim/sim/scenario"
	"github.com/montesim/montesim/sim/stats"
)

// envelope mirrors Envelope with the result left undecoded.
type envelope struct {
	RunID   string          `json:"run_id"`
	Command string          `json:"command"`
	Seed    int64           `json:"seed"`
	Result  json.RawMessage `json:"result"`
}

// resetFlags restores every flag of c and its subcommands to its default so
// package-level flag variables do not leak between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--defaults", defaultsPath(t)))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// executeJSON runs the CLI with -o json and decodes the envelope.
func executeJSON(t *testing.T, args ...string) envelope {
	t.Helper()
	out, err := execute(t, append(args, "-o", "json")...)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	return env
}

func TestGenerateLCG_TableOutput(t *testing.T) {
	// GIVEN explicit LCG parameters a=5, c=3, m=16, Z0=7
	// WHEN three values are generated
	out, err := execute(t, "generate", "lcg", "--a", "5", "--c", "3", "--m", "16", "--z0", "7", "-n", "3")
	require.NoError(t, err)

	// THEN the states 6, 1, 8 and their uniforms are printed
	assert.Contains(t, out, "lcg, Z0 = 7")
	assert.Contains(t, out, "0.3750")
	assert.Contains(t, out, "0.0625")
	assert.Contains(t, out, "0.5000")
}

func TestGenerateMidSquare_JSONOutput(t *testing.T) {
	env := executeJSON(t, "generate", "midsquare", "--z0", "5197", "-n", "2")

	assert.Equal(t, "generate midsquare", env.Command)
	assert.NotEmpty(t, env.RunID)
	var seq randgen.Sequence
	require.NoError(t, json.Unmarshal(env.Result, &seq))
	assert.Equal(t, randgen.MethodMidSquare, seq.Method)
	assert.Len(t, seq.Steps, 2)
}

func TestDistribution_LookupInvertsCodes(t *testing.T) {
	// GIVEN the interarrival table of the Able/Baker example
	env := executeJSON(t, "distribution", "--rows", "1:0.25,2:0.40,3:0.20,4:0.15", "--lookup", "26 98 90 00 25")

	var res DistributionResult
	require.NoError(t, json.Unmarshal(env.Result, &res))

	// THEN the ranges partition 1..100 and each code maps to its row
	assert.Equal(t, 100, res.Table.Base)
	values := make([]float64, len(res.Lookups))
	for i, d := range res.Lookups {
		values[i] = d.Value
	}
	assert.Equal(t, []float64{2, 4, 4, 4, 1}, values)
	assert.InDelta(t, 2.25, res.Mean, 1e-9)
	assert.Empty(t, res.Advisories)
}

func TestDistribution_PresetTableRendersRanges(t *testing.T) {
	out, err := execute(t, "distribution", "--preset", "dual-server", "--table", "baker")
	require.NoError(t, err)

	assert.Contains(t, out, "01-35")
	assert.Contains(t, out, "81-00")
}

func TestDistribution_RequiresRows(t *testing.T) {
	_, err := execute(t, "distribution")
	assert.True(t, errors.Is(err, sim.ErrConfiguration))
}

func TestSimulate_InventoryPreset(t *testing.T) {
	// GIVEN the inventory preset (3 review cycles of 5 days)
	env := executeJSON(t, "simulate", "--preset", "inventory")

	var rep struct {
		Kind      scenario.Kind     `json:"kind"`
		Inventory *inventory.Result `json:"inventory"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &rep))

	// THEN one row per day is reported
	assert.Equal(t, scenario.KindInventory, rep.Kind)
	require.NotNil(t, rep.Inventory)
	assert.Len(t, rep.Inventory.Rows, 15)
	assert.Equal(t, 3, rep.Inventory.Summary.OrdersPlaced+countNoOrderReviews(rep.Inventory.Rows))
}

func countNoOrderReviews(rows []inventory.Row) int {
	n := 0
	for _, r := range rows {
		if r.Review && r.Order == nil {
			n++
		}
	}
	return n
}

func TestSimulate_ScenarioFileTable(t *testing.T) {
	out, err := execute(t, "simulate", filepath.Join("..", "testdata", "scenarios", "single_server.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "Average wait:")
	assert.Contains(t, out, "Utilization:")
}

func TestSimulate_SeedFlagOverridesScenarioSeed(t *testing.T) {
	// GIVEN a preset whose numbers all come from the injected source
	first := executeJSON(t, "simulate", "--preset", "single-server-random", "--seed", "7")
	second := executeJSON(t, "simulate", "--preset", "single-server-random", "--seed", "7")

	// THEN the explicit seed is used and the run is reproducible
	assert.Equal(t, int64(7), first.Seed)
	assert.JSONEq(t, string(first.Result), string(second.Result))

	// AND without --seed the preset's own seed applies
	own := executeJSON(t, "simulate", "--preset", "single-server-random")
	assert.Equal(t, int64(42), own.Seed)
}

func TestSimulate_TraceSummaryForDualServer(t *testing.T) {
	out, err := execute(t, "simulate", "--preset", "dual-server")
	require.NoError(t, err)

	assert.Contains(t, out, "Assignments:")
	assert.Contains(t, out, "Able:")
}

func TestSimulate_Rejects(t *testing.T) {
	_, err := execute(t, "simulate")
	assert.True(t, errors.Is(err, sim.ErrConfiguration), "no scenario")

	_, err = execute(t, "simulate", "--preset", "inventory", "--trace", "verbose")
	assert.True(t, errors.Is(err, sim.ErrConfiguration), "bad trace level")

	_, err = execute(t, "simulate", "--preset", "no-such-preset")
	assert.Error(t, err)
}

func TestReplicate_SummarizesMetric(t *testing.T) {
	env := executeJSON(t, "replicate", "--preset", "single-server-random", "--runs", "5", "--metric", "utilization", "-q")

	var rep scenario.Replication
	require.NoError(t, json.Unmarshal(env.Result, &rep))
	assert.Equal(t, "utilization", rep.Metric)
	assert.Len(t, rep.Values, 5)
	assert.Equal(t, 5, rep.Distribution.Count)
	assert.LessOrEqual(t, rep.Distribution.Max, 1.0)
}

func TestReplicate_UnknownMetric(t *testing.T) {
	_, err := execute(t, "replicate", "--preset", "inventory", "--runs", "2", "--metric", "average_wait", "-q")
	assert.True(t, errors.Is(err, sim.ErrConfiguration))
}

func TestChiSquare_FromFile(t *testing.T) {
	// GIVEN ten values spread evenly over the unit interval
	path := filepath.Join(t.TempDir(), "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("0.05 0.15 0.25 0.35 0.45\n0.55 0.65 0.75 0.85 0.95\n"), 0o644))

	// WHEN tested with five intervals
	env := executeJSON(t, "chisquare", "--file", path, "--k", "5", "--alpha", "0.05")

	// THEN every interval holds its expected count and uniformity is accepted
	var res stats.ChiSquareResult
	require.NoError(t, json.Unmarshal(env.Result, &res))
	assert.Equal(t, 10, res.N)
	assert.Equal(t, 4, res.DF)
	assert.InDelta(t, 0, res.Calculated, 1e-12)
	assert.Equal(t, stats.Accepted, res.Verdict)
}

func TestChiSquare_SkippedTokensAreReported(t *testing.T) {
	out, err := execute(t, "chisquare", "--sample", "0.1 abc 0.6", "--k", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped-token")
}

func TestChiSquare_NoSample(t *testing.T) {
	_, err := execute(t, "chisquare")
	assert.True(t, errors.Is(err, sim.ErrInsufficientData))
}

func TestAutocorr_TrendIsDependent(t *testing.T) {
	env := executeJSON(t, "autocorr", "--sample", "1,2,3,4,5")

	var res stats.AutocorrelationResult
	require.NoError(t, json.Unmarshal(env.Result, &res))
	assert.Len(t, res.Lags, 4)
	assert.Equal(t, stats.Dependent, res.Verdict)
}

func TestAutocorr_ConstantSample(t *testing.T) {
	_, err := execute(t, "autocorr", "--sample", "0.5 0.5 0.5 0.5")
	assert.True(t, errors.Is(err, sim.ErrComputation))
}

func TestMM1(t *testing.T) {
	env := executeJSON(t, "mm1", "--lambda", "2", "--mu", "3")

	var res queue.MM1Result
	require.NoError(t, json.Unmarshal(env.Result, &res))
	assert.InDelta(t, 2.0, res.Ls, 1e-12)
	assert.InDelta(t, 2.0/3.0, res.Wq, 1e-12)

	_, err := execute(t, "mm1", "--lambda", "3", "--mu", "3")
	assert.True(t, errors.Is(err, sim.ErrConfiguration))
}

func TestOutput_YAMLEnvelope(t *testing.T) {
	out, err := execute(t, "mm1", "--lambda", "1", "--mu", "4", "-o", "yaml")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "run_id: "), out)
	assert.Contains(t, out, "command: mm1")
	assert.Contains(t, out, "rho: 0.25")
}

func TestOutput_InvalidFormat(t *testing.T) {
	_, err := execute(t, "mm1", "--lambda", "1", "--mu", "4", "-o", "xml")
	assert.Error(t, err)
}
