package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/dist"
	"github.com/montesim/montesim/sim/stats"
)

// readSample loads a numeric sample from inline text or, when path is set,
// from a file. Tokens that are not numbers become skipped-token advisories.
func readSample(inline, path string) ([]float64, sim.Advisories, error) {
	text := inline
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading sample file: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("%w: provide a sample with --sample or --file", sim.ErrInsufficientData)
	}
	values, skipped := stats.ParseSample(text)
	var advs sim.Advisories
	for _, tok := range skipped {
		advs = append(advs, sim.Advisory{
			Kind:    sim.AdvisorySkippedToken,
			Message: fmt.Sprintf("token %q is not a number and was ignored", tok),
		})
	}
	return values, advs, nil
}

// parseRows reads "value:probability" pairs separated by commas, e.g.
// "1:0.25,2:0.40,3:0.20,4:0.15".
func parseRows(text string) ([]dist.Row, error) {
	var rows []dist.Row
	for _, pair := range strings.Split(text, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		v, p, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("%w: row %q is not value:probability", sim.ErrConfiguration, pair)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %q: invalid value: %v", sim.ErrConfiguration, pair, err)
		}
		prob, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %q: invalid probability: %v", sim.ErrConfiguration, pair, err)
		}
		rows = append(rows, dist.Row{Value: value, Probability: prob})
	}
	return rows, nil
}
