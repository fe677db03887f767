// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ConfigStore: Application configuration (TOML file)
//   - CredentialsSource: Per-vendor secrets (.env files and environment)
//   - TokenCache: Cached OAuth access tokens (one JSON file per vendor)
//
// # Optional Interfaces
//
//   - ActivityStore: History of mutating calls. The memory store stands in
//     when history is disabled.
//   - Confirmer: Yes/no gate before destructive calls.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
