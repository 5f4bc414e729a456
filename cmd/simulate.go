package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/dist"
	"github.com/montesim/montesim/sim/inventory"
	"github.com/montesim/montesim/sim/queue"
	"github.com/montesim/montesim/sim/scenario"
	"github.com/montesim/montesim/sim/trace"
)

var (
	simPreset string // Preset name in the defaults file
	simTrace  string // Trace level override
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario.yaml]",
	Short: "Run one single-server, dual-server or inventory scenario",
	Example: `  montesim simulate testdata/scenarios/single_server.yaml
  montesim simulate --preset inventory -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScenario(args, simPreset)
		if err != nil {
			return err
		}
		if simTrace != "" {
			if !trace.IsValidTraceLevel(simTrace) {
				return fmt.Errorf("%w: unknown trace level %q", sim.ErrConfiguration, simTrace)
			}
			sc.Trace = simTrace
		}
		rep, err := scenario.Run(sc, nil)
		if err != nil {
			return err
		}
		warnAdvisories("simulate", rep.Advisories)
		return emit(cmd.OutOrStdout(), settings.Output, "simulate", rep.Seed, rep,
			func(tw *tabwriter.Writer) { renderReport(tw, rep) })
	},
}

// loadScenario reads the scenario file named in args, or the preset when no
// file is given. An explicitly set --seed (flag, env or settings file)
// replaces the scenario's own seed.
func loadScenario(args []string, preset string) (*scenario.Scenario, error) {
	var (
		sc  *scenario.Scenario
		err error
	)
	switch {
	case len(args) == 1 && preset != "":
		return nil, fmt.Errorf("%w: give a scenario file or --preset, not both", sim.ErrConfiguration)
	case len(args) == 1:
		sc, err = scenario.Load(args[0])
	case preset != "":
		sc, err = GetPreset(preset, settings.Defaults)
	default:
		return nil, fmt.Errorf("%w: give a scenario file or --preset", sim.ErrConfiguration)
	}
	if err != nil {
		return nil, err
	}
	if viper.IsSet("seed") {
		sc.Seed = settings.Seed
	}
	return sc, nil
}

func renderReport(tw *tabwriter.Writer, rep *scenario.Report) {
	name := rep.Name
	if name == "" {
		name = string(rep.Kind)
	}
	fmt.Fprintf(tw, "Scenario %s (%s), seed %d\n\n", name, rep.Kind, rep.Seed)

	names := make([]string, 0, len(rep.Tables))
	for n := range rep.Tables {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		renderTable(tw, n, rep.Tables[n])
		fmt.Fprintln(tw)
	}

	switch {
	case rep.SingleServer != nil:
		renderSingleServer(tw, rep.SingleServer)
	case rep.DualServer != nil:
		renderDualServer(tw, rep.DualServer)
	case rep.Inventory != nil:
		renderInventory(tw, rep.Inventory)
	}
	if rep.TraceSummary != nil {
		renderTraceSummary(tw, rep.TraceSummary)
	}
	printAdvisories(tw, rep.Advisories)
}

// drawCell renders a mapped draw as "value (RN)", or "-" when absent.
func drawCell(d *dist.Draw) string {
	if d == nil {
		return "-"
	}
	if d.Code == 0 {
		return fmt.Sprintf("%g", d.Value)
	}
	return fmt.Sprintf("%g (%02d)", d.Value, d.Code)
}

func renderSingleServer(tw *tabwriter.Writer, res *queue.SingleServerResult) {
	fmt.Fprintln(tw, "Customer\tIAT (RN)\tArrival\tService (RN)\tBegin\tEnd\tWait\tIn system\tIdle\t")
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%s\t%g\t%g\t%g\t%g\t%g\t\n",
			r.Customer, drawCell(r.Interarrival), r.Arrival, drawCell(&r.Service), r.Begin, r.End, r.Wait, r.InSystem, r.Idle)
	}
	s := res.Summary
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Average wait:\t%.4f\t\n", s.AverageWait)
	fmt.Fprintf(tw, "Utilization:\t%.4f\t\n", s.Utilization)
	fmt.Fprintf(tw, "P(wait):\t%.4f\t\n", s.ProbabilityWait)
	fmt.Fprintf(tw, "Average wait of those who wait:\t%.4f\t\n", s.AverageWaitOfWaiter)
	fmt.Fprintf(tw, "Average time in system:\t%.4f\t\n", s.AverageInSystem)
	fmt.Fprintf(tw, "Average service time:\t%.4f\t\n", s.AverageService)
	fmt.Fprintf(tw, "Average interarrival time:\t%.4f\t\n", s.AverageInterarrival)
	fmt.Fprintf(tw, "P(idle server):\t%.4f\t\n", s.ProbabilityIdle)
	fmt.Fprintf(tw, "End time:\t%g\t\n", s.EndTime)
}

func renderDualServer(tw *tabwriter.Writer, res *queue.DualServerResult) {
	fmt.Fprintln(tw, "Customer\tIAT (RN)\tArrival\tServer\tRule\tService (RN)\tBegin\tEnd\tQueue\t")
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%s\t%s\t%s\t%g\t%g\t%g\t\n",
			r.Customer, drawCell(r.Interarrival), r.Arrival, r.Server, r.Rule, drawCell(&r.Service), r.Begin, r.End, r.Queue)
	}
	s := res.Summary
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Average time in queue:\t%.4f\t\n", s.AverageQueue)
	fmt.Fprintf(tw, "P(wait):\t%.4f\t\n", s.ProbabilityWait)
	fmt.Fprintf(tw, "End time:\t%g\t\n", s.EndTime)
	for _, srv := range queue.Servers {
		t := s.PerServer[srv]
		fmt.Fprintf(tw, "%s:\t%d customers\tservice %g\tutilization %.4f\t\n", srv, t.Customers, t.Service, t.Utilization)
	}
}

func renderInventory(tw *tabwriter.Writer, res *inventory.Result) {
	fmt.Fprintln(tw, "Cycle\tDay\tReceived\tBegin\tDemand (RN)\tEnd\tShortage\tOrder\tLead (RN)\tArrives in\t")
	for _, r := range res.Rows {
		order, lead, arrives := "-", "-", "-"
		if r.Order != nil {
			order = fmt.Sprintf("%d", r.Order.Quantity)
			lead = drawCell(&r.Order.LeadTime)
		}
		if r.DaysUntilArrival != nil {
			arrives = fmt.Sprintf("%d", *r.DaysUntilArrival)
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%d\t%d\t%s\t%s\t%s\t\n",
			r.Cycle, r.DayInCycle, r.Received, r.BeginInventory, drawCell(&r.Demand), r.EndInventory,
			r.CumulativeShortage, order, lead, arrives)
	}
	s := res.Summary
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Average ending inventory:\t%.4f\t\n", s.AverageEndingInventory)
	fmt.Fprintf(tw, "Total shortage:\t%d\t\n", s.TotalShortage)
	fmt.Fprintf(tw, "Shortage days:\t%d\t\n", s.ShortageDays)
	fmt.Fprintf(tw, "Orders placed:\t%d\t\n", s.OrdersPlaced)
	fmt.Fprintf(tw, "Total ordered:\t%d\t\n", s.TotalOrdered)
	fmt.Fprintf(tw, "Final inventory:\t%d\t\n", s.FinalInventory)
	fmt.Fprintf(tw, "In transit:\t%d\t\n", s.InTransit)
}

func renderTraceSummary(tw *tabwriter.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Trace")
	if ts.TotalAssignments > 0 {
		fmt.Fprintf(tw, "  Assignments:\t%d\t\n", ts.TotalAssignments)
		for _, k := range sortedKeys(ts.ServerDistribution) {
			fmt.Fprintf(tw, "  server %s:\t%d\t\n", k, ts.ServerDistribution[k])
		}
		for _, k := range sortedKeys(ts.RuleDistribution) {
			fmt.Fprintf(tw, "  rule %s:\t%d\t\n", k, ts.RuleDistribution[k])
		}
	}
	if ts.ReviewDecisions > 0 {
		fmt.Fprintf(tw, "  Reviews:\t%d\t\n", ts.ReviewDecisions)
		fmt.Fprintf(tw, "  Orders placed:\t%d\t\n", ts.OrdersPlaced)
		fmt.Fprintf(tw, "  Mean lead time:\t%.2f\t\n", ts.MeanLeadTime)
		fmt.Fprintf(tw, "  Largest order:\t%d\t\n", ts.MaxOrderQuantity)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	simulateCmd.Flags().StringVar(&simPreset, "preset", "", "Run a preset from the defaults file instead of a scenario file")
	simulateCmd.Flags().StringVar(&simTrace, "trace", "", "Decision trace level (none, decisions)")
	rootCmd.AddCommand(simulateCmd)
}
