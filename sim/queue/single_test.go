package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montesim/montesim/sim"
	"github.com/montesim/montesim/sim/dist"
)

func TestSimulateSingleServer_ThreeCustomerExample(t *testing.T) {
	// GIVEN interarrivals [-, 2, 1] and services [3, 2, 4]
	cfg := SingleServerConfig{
		Customers:     3,
		Interarrivals: dist.Fixed(0, 2, 1),
		Services:      dist.Fixed(3, 2, 4),
	}

	// WHEN the run is simulated
	res, err := SimulateSingleServer(cfg)
	require.NoError(t, err)

	// THEN customers queue behind each other
	var begins, ends, waits, arrivals []float64
	for _, r := range res.Rows {
		arrivals = append(arrivals, r.Arrival)
		begins = append(begins, r.Begin)
		ends = append(ends, r.End)
		waits = append(waits, r.Wait)
	}
	assert.Equal(t, []float64{0, 2, 3}, arrivals)
	assert.Equal(t, []float64{0, 3, 5}, begins)
	assert.Equal(t, []float64{3, 5, 9}, ends)
	assert.Equal(t, []float64{0, 1, 2}, waits)
	assert.Nil(t, res.Rows[0].Interarrival, "first customer has no interarrival")

	assert.InDelta(t, 1.0, res.Summary.AverageWait, 1e-12)
	assert.InDelta(t, 1.0, res.Summary.Utilization, 1e-12)
	assert.Equal(t, 2, res.Summary.Waited)
	assert.InDelta(t, 2.0/3.0, res.Summary.ProbabilityWait, 1e-12)
	assert.InDelta(t, 1.5, res.Summary.AverageWaitOfWaiter, 1e-12)
	assert.InDelta(t, 1.5, res.Summary.AverageInterarrival, 1e-12)
	assert.Equal(t, 9.0, res.Summary.EndTime)
}

func TestSimulateSingleServer_IdleTimeAccumulates(t *testing.T) {
	// GIVEN customers that arrive after the server has gone idle
	res, err := SimulateSingleServer(SingleServerConfig{
		Customers:     3,
		Interarrivals: dist.Fixed(0, 5, 4),
		Services:      dist.Fixed(2, 1, 3),
	})
	require.NoError(t, err)

	// THEN idle gaps are 0, 3 (2→5) and 3 (6→9)
	assert.Equal(t, []float64{0, 3, 3}, []float64{res.Rows[0].Idle, res.Rows[1].Idle, res.Rows[2].Idle})
	assert.Equal(t, 0.0, res.Summary.TotalWait)
	assert.InDelta(t, 6.0/12.0, res.Summary.Utilization, 1e-12)
	assert.InDelta(t, 6.0/12.0, res.Summary.ProbabilityIdle, 1e-12)
}

func TestSimulateSingleServer_Invariants(t *testing.T) {
	iats := dist.Fixed(0, 1, 8, 3, 2, 2, 7, 1, 4, 6)
	svcs := dist.Fixed(4, 1, 2, 6, 5, 3, 2, 4, 1, 3)
	res, err := SimulateSingleServer(SingleServerConfig{Customers: 10, Interarrivals: iats, Services: svcs})
	require.NoError(t, err)

	for i, r := range res.Rows {
		assert.GreaterOrEqual(t, r.Begin, r.Arrival, "row %d", i)
		assert.Equal(t, r.Begin+r.Service.Value, r.End, "row %d", i)
		assert.GreaterOrEqual(t, r.Wait, 0.0, "row %d", i)
		assert.Equal(t, r.Wait+r.Service.Value, r.InSystem, "row %d", i)
		if i > 0 {
			assert.GreaterOrEqual(t, r.Begin, res.Rows[i-1].End, "FIFO at row %d", i)
			assert.GreaterOrEqual(t, r.Arrival, res.Rows[i-1].Arrival, "arrivals monotone at row %d", i)
		}
	}
	assert.LessOrEqual(t, res.Summary.Utilization, 1.0)
}

func TestSimulateSingleServer_ZeroServiceGivesZeroUtilization(t *testing.T) {
	res, err := SimulateSingleServer(SingleServerConfig{
		Customers:     2,
		Interarrivals: dist.Fixed(0, 0),
		Services:      dist.Fixed(0, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Summary.EndTime)
	assert.Equal(t, 0.0, res.Summary.Utilization)
}

func TestSimulateSingleServer_SingleCustomer(t *testing.T) {
	res, err := SimulateSingleServer(SingleServerConfig{
		Customers:     1,
		Interarrivals: dist.Fixed(0),
		Services:      dist.Fixed(4),
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 0.0, res.Summary.AverageInterarrival)
	assert.Equal(t, 1.0, res.Summary.Utilization)
}

func TestSimulateSingleServer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  SingleServerConfig
	}{
		{"zero customers", SingleServerConfig{Customers: 0}},
		{"short interarrivals", SingleServerConfig{Customers: 3, Interarrivals: dist.Fixed(0, 1), Services: dist.Fixed(1, 1, 1)}},
		{"short services", SingleServerConfig{Customers: 2, Interarrivals: dist.Fixed(0, 1), Services: dist.Fixed(1)}},
		{"negative service", SingleServerConfig{Customers: 2, Interarrivals: dist.Fixed(0, 1), Services: dist.Fixed(1, -1)}},
		{"negative interarrival", SingleServerConfig{Customers: 2, Interarrivals: dist.Fixed(0, -2), Services: dist.Fixed(1, 1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SimulateSingleServer(tc.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, sim.ErrConfiguration), "got %v", err)
		})
	}
}

func TestSimulateSingleServer_IgnoresFirstInterarrival(t *testing.T) {
	// A first interarrival of 99 must not shift the first arrival.
	res, err := SimulateSingleServer(SingleServerConfig{
		Customers:     2,
		Interarrivals: dist.Fixed(99, 1),
		Services:      dist.Fixed(1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Rows[0].Arrival)
	assert.Equal(t, 1.0, res.Rows[1].Arrival)
}
