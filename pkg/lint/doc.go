// Package lint decides which files static analysis looks at and which of
// its diagnostics are reported.
//
// Include and exclude patterns use doublestar globs on slash separated,
// root relative paths. Exclude entries without a slash match any path
// segment, so ".git" prunes ".git/config" as well as "vendor/x/.git/HEAD".
package lint
