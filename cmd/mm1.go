package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/montesim/montesim/sim/queue"
)

var (
	mm1Lambda float64 // Arrival rate
	mm1Mu     float64 // Service rate
)

var mm1Cmd = &cobra.Command{
	Use:     "mm1",
	Short:   "Steady-state measures of an M/M/1 queue",
	Example: `  montesim mm1 --lambda 2 --mu 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := queue.MM1(mm1Lambda, mm1Mu)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), settings.Output, "mm1", settings.Seed, res,
			func(tw *tabwriter.Writer) { renderMM1(tw, res) })
	},
}

func renderMM1(tw *tabwriter.Writer, r *queue.MM1Result) {
	fmt.Fprintf(tw, "λ = %g, μ = %g\n\n", r.Lambda, r.Mu)
	fmt.Fprintf(tw, "ρ (utilization):\t%.4f\t\n", r.Rho)
	fmt.Fprintf(tw, "P0 (empty system):\t%.4f\t\n", r.P0)
	fmt.Fprintf(tw, "Ls (number in system):\t%.4f\t\n", r.Ls)
	fmt.Fprintf(tw, "Lq (number in queue):\t%.4f\t\n", r.Lq)
	fmt.Fprintf(tw, "Ws (time in system):\t%.4f\t\n", r.Ws)
	fmt.Fprintf(tw, "Wq (time in queue):\t%.4f\t\n", r.Wq)
}

func init() {
	mm1Cmd.Flags().Float64Var(&mm1Lambda, "lambda", 0, "Arrival rate λ")
	mm1Cmd.Flags().Float64Var(&mm1Mu, "mu", 0, "Service rate μ")
	_ = mm1Cmd.MarkFlagRequired("lambda")
	_ = mm1Cmd.MarkFlagRequired("mu")
	rootCmd.AddCommand(mm1Cmd)
}
