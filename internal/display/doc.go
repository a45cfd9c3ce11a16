// Package display renders the fixed operator-facing screens (start banner,
// setup help) and formats sizes and bitrates for the console log.
package display
