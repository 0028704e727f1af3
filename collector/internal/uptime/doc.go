// Package uptime tracks a sliding window of probe outcomes per region and
// derives the uptime percentage recorded on each sample. A region with no
// history yet reports 100, so the first sample of a fresh region is not
// penalized for having no track record.
package uptime
