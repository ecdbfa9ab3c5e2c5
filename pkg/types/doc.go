// Package types holds the stable, dependency-free vocabulary shared by the
// resource index packages: resource types, type selection masks, resource
// references and typed errors.
//
// Design goals:
//   - Typed errors with stable categories (truncated/tag/empty/corrupt/...).
//   - Numeric values that match the on-disk encoding.
//   - Paranoid decoding helpers; never panic on malformed input.
//
// This package has no dependencies beyond the standard library.
package types
