// Package validation checks box-office export files before they are parsed:
// the path must be a readable regular file, Excel lock files are refused and
// the content must match the extension.
package validation
