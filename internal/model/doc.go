// Package model holds the data types shared by the parsing pipeline, the
// session driver, and the session manager: session state, messages,
// screen snapshots, parser contexts, semantic outputs, confirmation
// records, fingerprints, and preset configuration.
//
// Types in this package carry no behavior beyond JSON (de)serialization.
// Nothing here mutates shared state; values are passed by copy or by
// read-only pointer into parsers.
package model
