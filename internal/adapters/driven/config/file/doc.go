// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with SERCHA_* environment overrides
//   - EpochStore: the cache epoch token of each cache key, kept in its own TOML state file
package file
