// Package report renders a validation result as the follow-up text document
// handed to the engagement team.
package report
