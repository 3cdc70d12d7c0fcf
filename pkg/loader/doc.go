// Package loader resolves the form structure assigned to a user. Sources
// fetch raw structures (over HTTP via pkg/client, or from JSON/YAML files via
// FileSource); Loader wraps any Source, strips markup from display strings with
// bluemonday and rejects structurally broken forms before a session sees them.
package loader
