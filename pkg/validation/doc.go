// Package validation implements the client-side rules applied to form
// answers. ValidateField checks one value against its field definition and
// ValidateSection aggregates every failing field of a section so callers can
// render all messages at once. Both are pure: validating the same input twice
// yields the same result.
package validation
