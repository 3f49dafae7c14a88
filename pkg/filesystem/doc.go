// Package filesystem provides the filesystem used by dots.
//
// All access goes through types.FS, backed by an afero.Fs. Symlink support
// comes from afero's optional Lstater, Linker and LinkReader interfaces, so
// the OS filesystem (and BasePathFs over it) supports everything while
// in-memory filesystems report symlink operations as unsupported.
package filesystem
