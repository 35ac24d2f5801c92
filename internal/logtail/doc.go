// Package logtail reads the tail of the fleetdash log file for the activity
// report.
//
// Tail keeps at most twice the requested number of lines in memory while
// scanning, so large rotated files cost one sequential pass. Parse understands
// both encoders produced by internal/logging: the console encoder's
// tab-separated columns and the JSON encoder's objects (read with gjson).
// Lines in neither form come back as a bare message so nothing is dropped.
package logtail
