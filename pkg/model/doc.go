// Package model defines the typed form model consumed by renderers. A model is
// built from an intake snapshot, so every field already carries its current
// value, its inline error and the selection flag of each option. Copy (title,
// labels, placeholders, option labels, actions) is layered on by decorators
// such as the uischema decorator; renderers never consult the engine
// directly. The curated UIHints map surfaces renderer-facing directives such as
// `widget`, `inputType`, `cssModifier` and `dir`.
package model
