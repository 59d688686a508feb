package grouping

import "github.com/priya/group-scout/internal/types"

// Flag thresholds. Calibrated against the trait scale's neutral midpoint of 50.
const (
	lowConscientiousness = 30.0
	driverExtraversion   = 60.0
	highExtraversion     = 70.0
	anchorTechnical      = 55.0
)

// flagRule raises one advisory flag when its predicate holds for the whole group.
type flagRule struct {
	code  string
	match func(members []*types.TraitVector) bool
}

var flagRules = []flagRule{
	{
		code: types.FlagAllLowConscientiousness,
		match: func(members []*types.TraitVector) bool {
			return all(members, func(tv *types.TraitVector) bool {
				return tv.Score(types.TraitConscientiousness) < lowConscientiousness
			})
		},
	},
	{
		code: types.FlagNoDriver,
		match: func(members []*types.TraitVector) bool {
			return all(members, func(tv *types.TraitVector) bool {
				return tv.Score(types.TraitExtraversion) < driverExtraversion
			})
		},
	},
	{
		code: types.FlagAllHighExtraversion,
		match: func(members []*types.TraitVector) bool {
			return all(members, func(tv *types.TraitVector) bool {
				return tv.Score(types.TraitExtraversion) >= highExtraversion
			})
		},
	},
	{
		code: types.FlagNoTechnicalAnchor,
		match: func(members []*types.TraitVector) bool {
			return all(members, func(tv *types.TraitVector) bool {
				return tv.Score(types.TraitTechnical) < anchorTechnical
			})
		},
	},
}

// evaluateFlags runs every rule and collects the codes that fire, in rule order.
func evaluateFlags(members []*types.TraitVector) []string {
	var flags []string
	for _, rule := range flagRules {
		if rule.match(members) {
			flags = append(flags, rule.code)
		}
	}
	return flags
}

func all(members []*types.TraitVector, pred func(*types.TraitVector) bool) bool {
	for _, m := range members {
		if !pred(m) {
			return false
		}
	}
	return true
}
