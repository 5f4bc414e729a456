package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/dist"
	"github.com/montesim/montesim/sim/scenario"
	"github.com/montesim/montesim/sim/stream"
)

var (
	distRows   string // Inline value:probability pairs
	distPreset string // Preset to take the table from
	distTable  string // Table name within the preset
	distLookup string // Range codes to invert
)

// DistributionResult is the output of the distribution command.
type DistributionResult struct {
	Table      *dist.Table    `json:"table" yaml:"table"`
	Mean       float64        `json:"mean" yaml:"mean"`
	Lookups    []dist.Draw    `json:"lookups,omitempty" yaml:"lookups,omitempty"`
	Advisories sim.Advisories `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Build a probability table's ranges and invert range codes",
	Example: `  montesim distribution --rows "1:0.25,2:0.40,3:0.20,4:0.15" --lookup "84 10 74 53 00"
  montesim distribution --preset dual-server --table baker`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := distributionRows()
		if err != nil {
			return err
		}
		res, err := buildDistribution(rows, distLookup)
		if err != nil {
			return err
		}
		warnAdvisories("distribution", res.Advisories)
		return emit(cmd.OutOrStdout(), settings.Output, "distribution", settings.Seed, res,
			func(tw *tabwriter.Writer) { renderDistribution(tw, res) })
	},
}

func distributionRows() ([]dist.Row, error) {
	switch {
	case distRows != "" && distPreset != "":
		return nil, fmt.Errorf("%w: --rows and --preset are mutually exclusive", sim.ErrConfiguration)
	case distRows != "":
		return parseRows(distRows)
	case distPreset != "":
		sc, err := GetPreset(distPreset, settings.Defaults)
		if err != nil {
			return nil, err
		}
		tables := presetTables(sc)
		rows, ok := tables[distTable]
		if !ok {
			names := make([]string, 0, len(tables))
			for name := range tables {
				names = append(names, name)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("%w: preset %q has no table %q; available: %v", sim.ErrConfiguration, distPreset, distTable, names)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: provide --rows or --preset", sim.ErrConfiguration)
	}
}

// presetTables lists the probability tables of a scenario by report name.
func presetTables(sc *scenario.Scenario) map[string][]dist.Row {
	out := make(map[string][]dist.Row)
	switch {
	case sc.SingleServer != nil:
		out[scenario.NameInterarrival] = sc.SingleServer.Interarrival
		out[scenario.NameService] = sc.SingleServer.Service
	case sc.DualServer != nil:
		out[scenario.NameInterarrival] = sc.DualServer.Interarrival
		out[scenario.NameAble] = sc.DualServer.Able
		out[scenario.NameBaker] = sc.DualServer.Baker
	case sc.Inventory != nil:
		out[scenario.NameDemand] = sc.Inventory.Demand
		out[scenario.NameLeadTime] = sc.Inventory.LeadTime
	}
	return out
}

// buildDistribution builds the table and inverts the codes in lookup, read
// with the table's base so "00"/"000" wrap to the top of the range.
func buildDistribution(rows []dist.Row, lookup string) (*DistributionResult, error) {
	t, err := dist.Build(rows)
	if err != nil {
		return nil, err
	}
	res := &DistributionResult{Table: t, Mean: t.Mean()}
	if adv, ok := t.CoverageAdvisory(); ok {
		res.Advisories = append(res.Advisories, adv)
	}
	if lookup != "" {
		codes, skipped := stream.ParseManual(lookup, t.Base)
		for _, tok := range skipped {
			res.Advisories = append(res.Advisories, sim.Advisory{
				Kind:    sim.AdvisorySkippedToken,
				Message: fmt.Sprintf("token %q is not an integer and was ignored", tok),
			})
		}
		res.Lookups = t.Map(codes)
		res.Advisories = append(res.Advisories, dist.FallbackAdvisories(res.Lookups)...)
	}
	return res, nil
}

func renderDistribution(tw *tabwriter.Writer, res *DistributionResult) {
	renderTable(tw, "", res.Table)
	fmt.Fprintf(tw, "Expected value: %.4f\n", res.Mean)
	if len(res.Lookups) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Code\tValue\t")
		for _, d := range res.Lookups {
			marker := ""
			if d.Fallback {
				marker = " (fallback)"
			}
			fmt.Fprintf(tw, "%s\t%g%s\t\n", dist.FormatCode(d.Code, res.Table.Base), d.Value, marker)
		}
	}
	printAdvisories(tw, res.Advisories)
}

// renderTable prints the cells of a built table with their ranges.
func renderTable(tw *tabwriter.Writer, title string, t *dist.Table) {
	if title != "" {
		fmt.Fprintf(tw, "%s (base %d)\n", title, t.Base)
	} else {
		fmt.Fprintf(tw, "Base %d\n", t.Base)
	}
	fmt.Fprintln(tw, "Value\tProbability\tCumulative\tRange\t")
	for _, c := range t.Cells {
		fmt.Fprintf(tw, "%g\t%.*f\t%.*f\t%s\t\n", c.Value, t.Precision, c.Probability, t.Precision, c.Cumulative, c.RangeLabel())
	}
}

func init() {
	distributionCmd.Flags().StringVar(&distRows, "rows", "", "Comma-separated value:probability pairs")
	distributionCmd.Flags().StringVar(&distPreset, "preset", "", "Take the table from this preset in the defaults file")
	distributionCmd.Flags().StringVar(&distTable, "table", scenario.NameService, "Table name within the preset (interarrival, service, able, baker, demand, lead_time)")
	distributionCmd.Flags().StringVar(&distLookup, "lookup", "", "Range codes to invert (\"00\"/\"000\" is the top of the range)")
	rootCmd.AddCommand(distributionCmd)
}
