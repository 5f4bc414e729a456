package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/scenario"
)

var (
	repRuns   int    // Number of replications
	repMetric string // Headline metric to summarize
	repPreset string // Preset name in the defaults file
	repQuiet  bool   // Suppress the progress bar
)

var replicateCmd = &cobra.Command{
	Use:   "replicate [scenario.yaml]",
	Short: "Run a scenario repeatedly and summarize one headline metric",
	Long: `replicate runs the same scenario --runs times. Replica i draws its random and
backfilled numbers from a seed derived from the scenario seed and i, so the
whole batch is reproducible. Generator-backed and complete manual streams are
identical in every replica.`,
	Example: `  montesim replicate --preset single-server-random --runs 500 --metric utilization`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScenario(args, repPreset)
		if err != nil {
			return err
		}
		var progress io.Writer = os.Stderr
		if repQuiet {
			progress = io.Discard
		}
		bar := progressbar.NewOptions(repRuns,
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription(fmt.Sprintf("replicating %s", sc.Kind)),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		rep, err := scenario.Replicate(sc, sim.NewSimulationKey(sc.Seed), repRuns, repMetric, func(int) {
			if err := bar.Add(1); err != nil {
				logrus.Debugf("progress bar: %v", err)
			}
		})
		if err != nil {
			return err
		}
		warnAdvisories("replicate", rep.Advisories)
		return emit(cmd.OutOrStdout(), settings.Output, "replicate", rep.Seed, rep,
			func(tw *tabwriter.Writer) { renderReplication(tw, rep) })
	},
}

func renderReplication(tw *tabwriter.Writer, rep *scenario.Replication) {
	name := rep.Name
	if name == "" {
		name = string(rep.Kind)
	}
	d := rep.Distribution
	fmt.Fprintf(tw, "Scenario %s (%s), seed %d, %d runs of %s\n\n", name, rep.Kind, rep.Seed, d.Count, rep.Metric)
	fmt.Fprintln(tw, "Mean\tStd dev\tMin\tP50\tP90\tMax\t")
	fmt.Fprintf(tw, "%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t\n", d.Mean, d.StdDev, d.Min, d.P50, d.P90, d.Max)
	printAdvisories(tw, rep.Advisories)
}

func init() {
	replicateCmd.Flags().IntVar(&repRuns, "runs", 100, "Number of replications")
	replicateCmd.Flags().StringVar(&repMetric, "metric", "", "Metric to summarize (default depends on the scenario kind)")
	replicateCmd.Flags().StringVar(&repPreset, "preset", "", "Replicate a preset from the defaults file instead of a scenario file")
	replicateCmd.Flags().BoolVarP(&repQuiet, "quiet", "q", false, "Hide the progress bar")
	rootCmd.AddCommand(replicateCmd)
}
