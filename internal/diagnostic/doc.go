// Package diagnostic provides structured errors, warnings and infos raised
// while checking a mapping file or resolving sheet headers.
//
// Key capabilities:
//   - Missing sheet or field reports
//   - Header fallback notices with "did you mean" suggestions
//   - A combined error for callers that only need pass or fail
package diagnostic
