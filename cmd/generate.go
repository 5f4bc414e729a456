package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/montesim/montesim/sim/dist"
	"github.com/montesim/montesim/sim/randgen"
)

var (
	genCount      int   // Number of values to generate
	lcgA          int64 // LCG multiplier
	lcgC          int64 // LCG increment
	lcgM          int64 // LCG modulus
	lcgSeed       int64 // LCG seed Z0
	midSquareSeed int64 // Middle-square seed Z0
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate pseudo-random numbers",
}

var generateLCGCmd = &cobra.Command{
	Use:   "lcg",
	Short: "Linear congruential generator: Z_i = (a·Z_{i-1} + c) mod m",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := randgen.LCGParams{A: lcgA, C: lcgC, M: lcgM, Seed: lcgSeed}
		if defaults := generatorDefaults(); defaults != nil {
			// Flags the user set win over the presets file.
			flags := cmd.Flags()
			if !flags.Changed("a") {
				p.A = defaults.LCG.A
			}
			if !flags.Changed("c") {
				p.C = defaults.LCG.C
			}
			if !flags.Changed("m") {
				p.M = defaults.LCG.M
			}
			if !flags.Changed("z0") {
				p.Seed = defaults.LCG.Seed
			}
		}
		return runGenerate(cmd, randgen.Request{Method: randgen.MethodLCG, LCG: &p, Count: genCount})
	},
}

var generateMidSquareCmd = &cobra.Command{
	Use:   "midsquare",
	Short: "Von Neumann middle-square generator",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := randgen.MidSquareParams{Seed: midSquareSeed}
		if defaults := generatorDefaults(); defaults != nil && !cmd.Flags().Changed("z0") {
			p.Seed = defaults.MidSquare.Seed
		}
		return runGenerate(cmd, randgen.Request{Method: randgen.MethodMidSquare, MidSquare: &p, Count: genCount})
	},
}

// generatorDefaults returns the generators section of the presets file, or
// nil when the file is absent or has none.
func generatorDefaults() *GeneratorDefaults {
	cfg, err := loadDefaultsConfig(settings.Defaults)
	if err != nil {
		logrus.Debugf("generator defaults unavailable: %v", err)
		return nil
	}
	g := cfg.Generators
	if g.LCG.M == 0 || g.MidSquare.Seed == 0 {
		return nil
	}
	return &g
}

func runGenerate(cmd *cobra.Command, req randgen.Request) error {
	seq, err := randgen.Generate(req)
	if err != nil {
		return err
	}
	warnAdvisories("generate", seq.Advisories)
	return emit(cmd.OutOrStdout(), settings.Output, "generate "+string(req.Method), viper.GetInt64("seed"), seq,
		func(tw *tabwriter.Writer) { renderSequence(tw, seq) })
}

func renderSequence(tw *tabwriter.Writer, seq *randgen.Sequence) {
	fmt.Fprintf(tw, "%s, Z0 = %d\n", seq.Method, seq.Seed)
	if seq.Method == randgen.MethodMidSquare {
		fmt.Fprintln(tw, "i\tZ_i\tZ_i²\tmiddle\tU_i\tRN\t")
		for _, s := range seq.Steps {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.4f\t%s\t\n", s.Index, s.State, s.Square, s.Middle, s.Uniform, dist.FormatCode(s.RangeCode, randgen.RangeCodeBase))
		}
	} else {
		fmt.Fprintln(tw, "i\tZ_i\tU_i\tRN\t")
		for _, s := range seq.Steps {
			fmt.Fprintf(tw, "%d\t%d\t%.4f\t%s\t\n", s.Index, s.State, s.Uniform, dist.FormatCode(s.RangeCode, randgen.RangeCodeBase))
		}
	}
	printAdvisories(tw, seq.Advisories)
}

func init() {
	generateCmd.PersistentFlags().IntVarP(&genCount, "count", "n", 10, "Number of values to generate")

	generateLCGCmd.Flags().Int64Var(&lcgA, "a", 5, "Multiplier")
	generateLCGCmd.Flags().Int64Var(&lcgC, "c", 3, "Increment")
	generateLCGCmd.Flags().Int64Var(&lcgM, "m", 100, "Modulus")
	generateLCGCmd.Flags().Int64Var(&lcgSeed, "z0", 7, "Seed Z0")

	generateMidSquareCmd.Flags().Int64Var(&midSquareSeed, "z0", 23, "Seed Z0 (at most 9 digits)")

	generateCmd.AddCommand(generateLCGCmd, generateMidSquareCmd)
	rootCmd.AddCommand(generateCmd)
}
