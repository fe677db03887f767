// Package sheets reads and appends Google Sheets values.
package sheets
