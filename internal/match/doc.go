// Package match resolves spreadsheet header text to canonical census fields.
//
// Key functions:
//   - NormalizeHeader: NFC composition, case folding, separator removal
//   - Levenshtein: rune-aware edit distance for Hangul headers
//   - Resolve: evaluates prioritized header rules into a Binding
//   - RankHeaders: ranks headers by similarity for "did you mean" hints
package match
