// Package uischema loads the copy of the intake form (title, labels,
// placeholders, option labels, call-to-action buttons) from JSON or YAML
// documents and applies it to form models through a decorator. The model
// builder stays unaware of copy; the bundled document carries the Hebrew text
// set and can be replaced by a directory that is watched for changes.
package uischema
