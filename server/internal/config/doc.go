// Package config loads the server-side configuration from the `server:` section
// of config.yaml (the `collector:` key is ignored by the server binary).
//
// Config fields:
//   - HTTPPort             - port for the REST API (default 8080)
//   - Dataset.Path         - JSON telemetry file to aggregate (default telemetry.json)
//   - Dataset.Watch        - hot reload via fsnotify (default true)
//   - DefaultThresholdMS   - breach threshold for region detail and alerting (default 200)
//   - Alerts.Rules         - "field op value" conditions over region aggregates
//   - Alerts.Webhooks      - teams | slack | http targets, URLs resolved from env vars
//
// Load(path) applies defaults before unmarshalling, then validates.
package config
