// Package calendar lists, creates and deletes Google Calendar events.
package calendar
