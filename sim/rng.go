package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce identical rows, including any backfilled random numbers.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Replica derives the key for the i-th replication of a run. Replica(0) is the
// key itself so a single run and the first replication agree.
func (k SimulationKey) Replica(i int) SimulationKey {
	if i == 0 {
		return k
	}
	return SimulationKey(int64(k) ^ fnv1a64(fmt.Sprintf("replica_%d", i)))
}

// === Subsystem Constants ===

const (
	// SubsystemInterarrival backfills interarrival random numbers.
	SubsystemInterarrival = "interarrival"
	// SubsystemService backfills service-time random numbers (shared by both
	// servers in the Able/Baker model).
	SubsystemService = "service"
	// SubsystemDemand backfills daily demand random numbers.
	SubsystemDemand = "demand"
	// SubsystemLeadTime backfills order lead-time random numbers.
	SubsystemLeadTime = "lead_time"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
// It is the only non-deterministic input of the engine: manual number lists
// shorter than required are padded from it, so tests inject a fixed key.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName), which keeps the
// demand stream unchanged when the lead-time list grows and vice versa.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
