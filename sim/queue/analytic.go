package queue

import (
	"fmt"
	"math"

	"github.com/montesim/montesim/sim"
)

// MM1Result holds the steady-state measures of an M/M/1 queue.
type MM1Result struct {
	Lambda float64 `json:"lambda" yaml:"lambda"`
	Mu     float64 `json:"mu" yaml:"mu"`
	Rho    float64 `json:"rho" yaml:"rho"` // server utilization λ/μ
	P0     float64 `json:"p0" yaml:"p0"`   // probability the system is empty
	Ls     float64 `json:"ls" yaml:"ls"`   // mean number in system
	Lq     float64 `json:"lq" yaml:"lq"`   // mean number in queue
	Ws     float64 `json:"ws" yaml:"ws"`   // mean time in system
	Wq     float64 `json:"wq" yaml:"wq"`   // mean time in queue
}

// MM1 computes the closed-form M/M/1 measures for arrival rate lambda and
// service rate mu. The queue is only stable when mu > lambda.
func MM1(lambda, mu float64) (*MM1Result, error) {
	for _, v := range []float64{lambda, mu} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, fmt.Errorf("%w: rates must be finite and positive (lambda=%v, mu=%v)", sim.ErrConfiguration, lambda, mu)
		}
	}
	if lambda >= mu {
		return nil, fmt.Errorf("%w: unstable queue: lambda (%v) must be below mu (%v)", sim.ErrConfiguration, lambda, mu)
	}
	rho := lambda / mu
	return &MM1Result{
		Lambda: lambda,
		Mu:     mu,
		Rho:    rho,
		P0:     1 - rho,
		Ls:     lambda / (mu - lambda),
		Lq:     lambda * lambda / (mu * (mu - lambda)),
		Ws:     1 / (mu - lambda),
		Wq:     lambda / (mu * (mu - lambda)),
	}, nil
}
