package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lucsky/cuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/montesim/montesim/sim"
)

// Envelope wraps a structured result with an identifier for the run.
type Envelope struct {
	RunID   string `json:"run_id" yaml:"run_id"`
	Command string `json:"command" yaml:"command"`
	Seed    int64  `json:"seed" yaml:"seed"`
	Result  any    `json:"result" yaml:"result"`
}

// tableFunc renders a result as aligned text columns.
type tableFunc func(tw *tabwriter.Writer)

// emit writes result in the configured format. Table output goes through a
// tabwriter; json and yaml wrap the result in an Envelope.
func emit(w io.Writer, format OutputFormat, command string, seed int64, result any, table tableFunc) error {
	env := Envelope{RunID: cuid.New(), Command: command, Seed: seed, Result: result}
	logrus.Debugf("%s: run %s", command, env.RunID)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(env); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

// warnAdvisories surfaces non-fatal notices on the log.
func warnAdvisories(command string, advisories sim.Advisories) {
	for _, a := range advisories {
		logrus.Warnf("%s: %s", command, a)
	}
}

// printAdvisories appends an advisory section to table output.
func printAdvisories(tw *tabwriter.Writer, advisories sim.Advisories) {
	if len(advisories) == 0 {
		return
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Advisories")
	for _, a := range advisories {
		fmt.Fprintf(tw, "  %s\n", a)
	}
}
