/*
Package nsbench contains the core DNS load-generation engine. A run is
described by the Benchmark struct and executed with Benchmark.Run, which
spawns the configured number of workers, floods the target nameserver until
the configured duration elapses, prints one progress line per reporting
interval and returns a Result with the aggregated outcome.
*/
package nsbench
