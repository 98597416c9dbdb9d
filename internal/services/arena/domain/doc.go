// Package domain holds the arena core data model: invites between two
// players and the active session that an accepted invite becomes. All
// time, identity generation, and randomness are injected so behavior is
// deterministic under test.
package domain
