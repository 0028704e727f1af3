// Package alerts implements the rule evaluation engine and webhook delivery
// for regionpulse alerting. Rules are evaluated against each region's
// aggregates whenever a dataset is loaded; webhooks are delivered to Teams,
// Slack, or generic HTTP targets.
package alerts
