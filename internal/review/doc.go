// Package review asks a language model for a free-text audit of each sheet.
//
// Observations are stored verbatim and never parsed; they do not feed the
// rule engine. A sheet whose request fails is recorded as a failed
// observation and the remaining sheets are still reviewed.
package review
