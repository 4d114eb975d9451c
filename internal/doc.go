// Package internal contains the packages behind the widgetkit CLI and demo
// host. The widgets themselves live under pkg/ and have no dependency on
// anything here.
//
// # Package Organization
//
//   - accessibility: markup checks run by the audit command and tests
//   - config: viper backed configuration with field validation
//   - errors: structured WidgetError with HTTP status mapping
//   - fixtures: YAML table rows, columns and testimonials
//   - logging: slog backed structured logger
//   - metrics: Prometheus collectors of the host
//   - server: chi router, htmx actions and the demo page
//   - session: per browser widget instances, serialized per session
//   - version: build metadata
//   - watcher: debounced fsnotify watcher for the fixtures file
//   - websocket: event hub streaming widget notifications
//
// # Request Flow
//
// A page load creates a session whose workspace mounts one table, the demo
// inputs and a carousel. htmx posts below /widgets are routed to the
// workspace, which runs the interaction and renders the swapped fragment
// while holding the session lock. Widget callbacks become websocket events
// and Prometheus counters.
package internal
