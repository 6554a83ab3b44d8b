// Package cli implements the interactive terminal front end of the
// HealthPulse client: the startup session check, the login form and a small
// command loop for the authenticated area.
package cli
