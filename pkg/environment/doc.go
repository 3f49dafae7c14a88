// Package environment probes the runtime environment of one dots run.
//
// The result is a types.RuntimeContext: OS id, user name, home directory and
// the active home managers (Guix Home, Nix). It is computed once and passed
// by value to the directory convention.
package environment
