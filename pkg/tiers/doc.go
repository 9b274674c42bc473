// Package tiers defines the subscription tier catalog of the will registry
// and the pure limit-evaluation rules applied against it.
//
// Four ordered levels exist (bronze < silver < gold < platinum). Each tier
// carries display metadata, pricing, and a map of per-resource limits where
// Unlimited (-1) means no cap. Limits must be monotonically non-decreasing
// along the level order; Catalog construction enforces this.
//
// Two deliberately different boundary rules exist and must stay separate:
//
//   - CheckLimit allows an action iff usage is strictly below the limit
//     (usage counted before adding the new item).
//   - OverLimitViolations flags a resource iff usage is strictly above the
//     limit (sitting exactly at the limit is not a violation).
//
// The default compiled-in catalog is available through package-level
// functions; a Catalog can also be loaded from YAML via YAMLSource for
// deployments that tune pricing without a rebuild.
package tiers
