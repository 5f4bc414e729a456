package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/stats"
)

var (
	acMaxLag    int     // Largest lag computed
	acThreshold float64 // Independence threshold on the average |r(k)|
)

// AutocorrelationOutput is the autocorrelation result plus input notices.
type AutocorrelationOutput struct {
	stats.AutocorrelationResult `yaml:",inline"`
	Advisories                  sim.Advisories `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

var autocorrCmd = &cobra.Command{
	Use:     "autocorr",
	Short:   "Lag-k autocorrelation test of independence",
	Example: `  montesim autocorr --file numbers.txt --max-lag 5 --threshold 0.2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		values, advs, err := readSample(sampleText, sampleFile)
		if err != nil {
			return err
		}
		res, err := stats.Autocorrelation(stats.AutocorrelationConfig{Sample: values, MaxLag: acMaxLag, Threshold: acThreshold})
		if err != nil {
			return err
		}
		out := &AutocorrelationOutput{AutocorrelationResult: *res, Advisories: advs}
		warnAdvisories("autocorr", advs)
		return emit(cmd.OutOrStdout(), settings.Output, "autocorr", settings.Seed, out,
			func(tw *tabwriter.Writer) { renderAutocorrelation(tw, out) })
	},
}

func renderAutocorrelation(tw *tabwriter.Writer, out *AutocorrelationOutput) {
	r := &out.AutocorrelationResult
	fmt.Fprintf(tw, "N = %d, mean = %.4f, variance = %.4f\n\n", r.N, r.Mean, r.Variance)
	fmt.Fprintln(tw, "k\tr(k)\t|r(k)|\t")
	for _, l := range r.Lags {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t\n", l.Lag, l.R, l.AbsR)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Average |r(k)|:\t%.4f\t\n", r.AverageAbsR)
	fmt.Fprintf(tw, "Threshold:\t%.4f\t\n", r.Threshold)
	fmt.Fprintf(tw, "Verdict:\t%s\t\n", r.Verdict)
	printAdvisories(tw, out.Advisories)
}

func init() {
	autocorrCmd.Flags().StringVar(&sampleText, "sample", "", "Sample values separated by commas or whitespace")
	autocorrCmd.Flags().StringVar(&sampleFile, "file", "", "Read the sample from a file")
	autocorrCmd.Flags().IntVar(&acMaxLag, "max-lag", stats.DefaultMaxLag, "Largest lag k to compute")
	autocorrCmd.Flags().Float64Var(&acThreshold, "threshold", stats.DefaultThreshold, "Independence threshold on the average |r(k)|")
	rootCmd.AddCommand(autocorrCmd)
}
