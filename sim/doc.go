// Package sim holds what every montesim engine package shares: the error
// taxonomy, non-fatal advisories and the partitioned random source.
//
// # Reading Guide
//
// The simulators are table driven. A run goes through three stages:
//   - sim/randgen: LCG and middle-square generators produce uniforms and
//     two-digit range codes.
//   - sim/dist: a probability table is turned into contiguous integer ranges
//     and each range code is inverted to a value.
//   - sim/queue, sim/inventory: the simulators consume the mapped values and
//     produce one row per customer or day plus a summary.
//
// sim/stream decides where the codes of one table come from (manual list,
// generator or the injected random source) and sim/scenario ties tables,
// streams and a simulator together from one YAML document. sim/stats tests
// number streams for uniformity and independence; sim/trace records the
// dual-server assignment and inventory ordering decisions.
//
// # Randomness
//
// Nothing in the engine touches a global random source. Random and
// backfilled codes come from a PartitionedRNG keyed by a SimulationKey, one
// isolated stream per subsystem, so adding draws to one table never shifts
// the numbers seen by another.
package sim
