/*
Package workers sizes the transform concurrency limit for containerized
deployments.

Available CPUs are read from runtime.GOMAXPROCS, which Go sets from the
container CPU quota, rather than runtime.NumCPU, which reports the host.

	// at most one concurrent transform per CPU, never more than 8
	limit := workers.ForCPU(8)

The ARTWORK_WORKERS environment variable overrides the calculation:

	env:
	- name: ARTWORK_WORKERS
	  value: "2"

An override larger than the caller's limit is capped at the limit. Invalid
or non-positive values are ignored.
*/
package workers
