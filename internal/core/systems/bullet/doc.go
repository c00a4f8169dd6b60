// Package bullet implements pooled projectiles and the per-frame collision
// sweep against registered targets.
//
// Every projectile type owns a fixed ring of preallocated slots. Spawning claims
// the first free slot, or recycles the oldest in-flight projectile when the pool
// is saturated, so Spawn never allocates and never fails for a registered type.
// Each tick ages and moves active projectiles, retires them on timeout and tests
// their bounding box against eligible targets in registration order; the first
// overlapping target receives the hit and the projectile is retired.
//
// The package is single-owner: Pool, Registry and Sweep carry no locks and must
// be driven from one goroutine (see package session for a goroutine owner).
package bullet
