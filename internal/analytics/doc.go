// Package analytics implements the computation core of the Superstore
// platform: RFM customer segmentation, the discount-cap ROI simulator,
// profitability diagnostics, sales trend analysis and forecasting, and
// k-means customer clustering.
//
// Every function in this package is a pure transform over an order
// slice: inputs are never mutated, no state survives a call, and the
// same input always produces the same output. Anything involving a
// clock, a database, or a network connection belongs to the caller.
package analytics
