package tiers

// CheckLimit evaluates whether one more item of res may be added for a tier,
// given the usage counted before the addition. The action is allowed iff the
// limit is Unlimited or usage is strictly below it.
func (c Catalog) CheckLimit(level Level, res Resource, usage float64) LimitCheck {
	limit := c.Config(level).Limits[res]
	allowed := limit == Unlimited || usage < limit
	return LimitCheck{
		Allowed:   allowed,
		Limit:     limit,
		OverLimit: !allowed,
	}
}

// CanAddItem is the boolean-only convenience form of CheckLimit.
func (c Catalog) CanAddItem(level Level, res Resource, usage float64) bool {
	return c.CheckLimit(level, res, usage).Allowed
}

// OverLimitViolations flags every resource in the snapshot whose usage
// strictly exceeds the tier limit. Sitting exactly at the limit is not a
// violation; this intentionally differs from CheckLimit's strict
// usage-below-limit allow rule, because a snapshot counts items that already
// exist rather than an item about to be added.
func (c Catalog) OverLimitViolations(level Level, snapshot map[Resource]float64) []Violation {
	tier := c.Config(level)

	var violations []Violation
	for _, res := range resourceOrder {
		usage, ok := snapshot[res]
		if !ok {
			continue
		}
		limit := tier.Limits[res]
		if limit != Unlimited && usage > limit {
			violations = append(violations, Violation{Resource: res, Usage: usage, Limit: limit})
		}
	}
	return violations
}

// SuggestedUpgrade walks the tiers above the current level in catalog order
// and returns the first whose limit for res is unlimited or strictly greater
// than the current tier's. Falls back to the highest tier when none qualifies.
func (c Catalog) SuggestedUpgrade(current Level, res Resource) Level {
	currentLimit := c.Config(current).Limits[res]

	start := current.rank() + 1
	if start <= 0 {
		// unknown level is a programmer error; keep the fallback semantics
		start = len(levelOrder)
	}
	for i := start; i < len(levelOrder); i++ {
		candidate := c.Config(levelOrder[i]).Limits[res]
		if candidate == Unlimited || candidate > currentLimit {
			return levelOrder[i]
		}
	}
	return levelOrder[len(levelOrder)-1]
}

// Package-level forms over the default catalog.

func CheckLimit(level Level, res Resource, usage float64) LimitCheck {
	return defaultCatalog.CheckLimit(level, res, usage)
}

func CanAddItem(level Level, res Resource, usage float64) bool {
	return defaultCatalog.CanAddItem(level, res, usage)
}

func OverLimitViolations(level Level, snapshot map[Resource]float64) []Violation {
	return defaultCatalog.OverLimitViolations(level, snapshot)
}

func SuggestedUpgrade(current Level, res Resource) Level {
	return defaultCatalog.SuggestedUpgrade(current, res)
}
