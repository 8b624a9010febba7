// Package identity turns what the external identity provider reports into a
// normalized Profile the registration form can be seeded from.
//
// The provider is only ever seen through a Snapshot. Derive is a pure function
// over one snapshot: it yields StatusPending while the provider is loading
// (loading wins over any authenticated flag), StatusUnauthenticated when there
// is nobody signed in, and StatusReady with a Profile otherwise. The profile's
// AuthMethod is classified from the subject's provider prefix: subjects issued
// by the phone connection ("sms|...") are MethodPhoneOTP, everything else is
// MethodPasswordOrSocial. A phone-authenticated profile never carries an email
// and a password/social profile never carries a phone number.
//
// Adapter wraps Derive in an observer: callers push each new snapshot through
// Observe and subscribers are told whenever the derived value is recomputed.
// Consumers that must not be re-seeded (the form) read a single Profile value
// and keep it.
//
// The package also owns the login boundary: a Provider builds the redirect to
// the identity provider for a chosen Connection and resolves the callback code
// into a Snapshot; a Store keeps snapshots per session and one-time login
// states.
package identity
