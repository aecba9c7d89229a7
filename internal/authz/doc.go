// Package authz implements the role-based access control core: a static,
// read-only permission table mapping roles to resource/action grants, and a
// pure decision function evaluated per request.
//
// Core concepts:
//
//   - Principal: a single authenticated identity per request, installed via
//     WithPrincipal with set-once semantics to prevent principal mixing.
//
//   - PermissionTable: Role → ordered permission set, built once at process
//     start and never mutated. Safe for unsynchronized concurrent reads.
//
//   - Authorize: the decision function. It performs no I/O, holds no state
//     and is deterministic: identical inputs always yield identical decisions.
//
// Usage rules:
//
//  1. Unknown roles always deny. There is no low-privilege fallback.
//  2. The resource wildcard "*" matches any resource; actions match exactly.
//  3. A route with no declared requirement is not constrained by this package.
//  4. Audit emission happens in the caller; Authorize itself stays pure.
package authz
