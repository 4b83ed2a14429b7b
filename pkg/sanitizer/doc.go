// Package sanitizer provides input normalization for user-supplied text.
//
// All normalization functions are idempotent: applying them multiple times produces
// the same result. Invalid input is handled by returning an empty string rather
// than an error, so sanitization always runs before validation.
//
// Normalization includes:
//   - Single-line strings: collapse whitespace, trim leading/trailing spaces
//   - Multi-line text: normalize line endings, trim trailing spaces, squeeze blank lines
//   - Emails: trim and lowercase
//   - Excerpts: cut long text on a rune boundary with an ellipsis
package sanitizer
