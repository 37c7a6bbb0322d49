// Package metrics holds observers that summarize a running simulation.
// All of them implement wave.Metric and are fed by Simulator.UpdateField.
package metrics
