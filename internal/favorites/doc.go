// Package favorites keeps the two sources of saved events.
//
// [Ledger] holds the anonymous favorites in the durable store; it is used only while nobody is signed in.
// [Client] caches each signed-in user's server-owned set and mutates it through [Run], an optimistic
// update that restores the exact prior value when the remote call fails and re-synchronizes afterwards.
//
// [SelectSource] picks one of the two as a [Source] from the stored identity, so callers branch once per screen.
package favorites
