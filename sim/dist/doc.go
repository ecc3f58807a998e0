// Package dist provides the random-variate samplers the simulation draws
// interarrival times, service durations and customer classes from.
//
// Samplers are thin wrappers over gonum's distuv distributions. Each one is
// bound to its own uniform source so that stations never share a stream.
package dist
