// Package metrics measures a running simulation once per frame. Every type
// here satisfies dynamo.Metric.
package metrics
