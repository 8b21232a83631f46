// Package reconcile wires the anonymous heart tap to the sign-in outcome.
//
// # Flow
//
//  1. [Heart.Tap] while signed out toggles the ledger, arms the gate with the prior state and schedules navigation
//     to the profile screen after a short [Deferred] delay.
//  2. [MountAuthScreen] opens the gate from storage (or from the eventId parameter).
//  3. [AuthScreen.SignIn] / [AuthScreen.SignUp] run the [Migrator] first, then persist the identity, write the
//     confirmation marker for a favorite intent and navigate back to the origin.
//  4. [AuthScreen.Unmount] closes the gate: resolved when the marker matches, otherwise the ledger entry reverts.
//
// Signed-in taps skip the ledger and the gate and go through [favorites.Client.Toggle].
//
// # Errors
//
// Network failures end at this package: they become a [Notification] and never propagate further.
// Migration failures are logged and swallowed so the sign-in always completes.
package reconcile
