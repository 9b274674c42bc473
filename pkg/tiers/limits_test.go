package tiers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willvault/registry/pkg/tiers"
)

func TestCheckLimitBoundary(t *testing.T) {
	t.Parallel()

	// Silver representatives limit is 12: 11 existing allows one more,
	// 12 existing does not.
	below := tiers.CheckLimit(tiers.LevelSilver, tiers.ResourceRepresentatives, 11)
	assert.True(t, below.Allowed)
	assert.False(t, below.OverLimit)
	assert.Equal(t, 12.0, below.Limit)

	at := tiers.CheckLimit(tiers.LevelSilver, tiers.ResourceRepresentatives, 12)
	assert.False(t, at.Allowed)
	assert.True(t, at.OverLimit)

	assert.True(t, tiers.CanAddItem(tiers.LevelSilver, tiers.ResourceRepresentatives, 11))
	assert.False(t, tiers.CanAddItem(tiers.LevelSilver, tiers.ResourceRepresentatives, 12))
}

func TestCheckLimitUnlimited(t *testing.T) {
	t.Parallel()

	check := tiers.CheckLimit(tiers.LevelPlatinum, tiers.ResourceRepresentatives, 1_000_000)
	assert.True(t, check.Allowed)
	assert.Equal(t, tiers.Unlimited, check.Limit)
	assert.False(t, check.OverLimit)
}

func TestOverLimitViolationsBoundaryDiffersFromAllow(t *testing.T) {
	t.Parallel()

	// Exactly at the limit: not allowed to add, but also not violating.
	atLimit := tiers.OverLimitViolations(tiers.LevelSilver, map[tiers.Resource]float64{
		tiers.ResourceRepresentatives: 12,
	})
	assert.Empty(t, atLimit)

	over := tiers.OverLimitViolations(tiers.LevelSilver, map[tiers.Resource]float64{
		tiers.ResourceRepresentatives: 13,
	})
	require.Len(t, over, 1)
	assert.Equal(t, tiers.ResourceRepresentatives, over[0].Resource)
	assert.Equal(t, 13.0, over[0].Usage)
	assert.Equal(t, 12.0, over[0].Limit)
}

func TestOverLimitViolationsSnapshot(t *testing.T) {
	t.Parallel()

	violations := tiers.OverLimitViolations(tiers.LevelBronze, map[tiers.Resource]float64{
		tiers.ResourceRepresentatives:   5,    // limit 3 -> violation
		tiers.ResourceEmergencyContacts: 1,    // at limit -> fine
		tiers.ResourceStorageGB:         0.25, // limit 0.1 -> violation
	})
	require.Len(t, violations, 2)
	assert.Equal(t, tiers.ResourceRepresentatives, violations[0].Resource)
	assert.Equal(t, tiers.ResourceStorageGB, violations[1].Resource)

	// Unlimited resources never violate.
	assert.Empty(t, tiers.OverLimitViolations(tiers.LevelPlatinum, map[tiers.Resource]float64{
		tiers.ResourceDocuments: 1_000_000,
	}))
}

func TestSuggestedUpgrade(t *testing.T) {
	t.Parallel()

	// Bronze allows 10 documents; silver's 50 is the first strict increase.
	assert.Equal(t, tiers.LevelSilver,
		tiers.SuggestedUpgrade(tiers.LevelBronze, tiers.ResourceDocuments))

	assert.Equal(t, tiers.LevelGold,
		tiers.SuggestedUpgrade(tiers.LevelSilver, tiers.ResourceEmergencyContacts))

	// Nothing above platinum: fall back to the highest tier.
	assert.Equal(t, tiers.LevelPlatinum,
		tiers.SuggestedUpgrade(tiers.LevelPlatinum, tiers.ResourceStorageGB))
}
