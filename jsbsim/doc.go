// Package jsbsim is a client for the JSBSim flight dynamics simulator's
// TCP console interface.
//
// The console speaks a synchronous, newline-delimited text protocol: the
// client sends one command line and reads back exactly one logical response
// line before issuing the next command. This package can either attach to an
// already-running simulator (Dial) or spawn one itself and wait for it to
// announce readiness (Launch). In both cases the returned Client exposes the
// typed command surface: Hold, Resume, Iterate, Set, and the generic Get.
//
// A Client owns its connection and, when it spawned the simulator, the
// simulator process. Close is idempotent and always reaps a spawned process,
// even when the remote side never acknowledged the quit command. A Client is
// not safe for concurrent use; the protocol itself permits only one command
// in flight at a time.
package jsbsim
