// Package model defines the form structure consumed by the session engine:
// field kinds, fields, sections, and the structure itself, plus the answer and
// error sets a session mutates. Struct tags mirror the form service payload
// (`formTitle`, `sections[].fields[].fieldId`, ...) for both JSON and YAML so
// structures fetched over HTTP and fixtures read from disk decode into the
// same types. The FieldKind set is closed; code that dispatches on it should
// switch over every constant so adding a kind surfaces each decision point.
package model
