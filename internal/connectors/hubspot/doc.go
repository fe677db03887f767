// Package hubspot wraps the HubSpot CRM v3 object API and the v4
// associations API using a private-app bearer token.
package hubspot
