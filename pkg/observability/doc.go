/*
Package observability provides tools for monitoring the zonecheck engine.

Metrics turns engine lifecycle hooks into Prometheus counters and
histograms; Handler serves them for scraping.
*/
package observability
