// Package engine implements the deterministic profile update applied after
// an analysis call: attribute clamping, streak computation, and token
// spend/reward sequencing. Everything here is pure and synchronous; the
// provider call happens in the ops layer between the charge and settle
// stages so a failed call never rolls back the spend.
package engine

import (
	"time"

	"lifequest/internal/attr"
	"lifequest/internal/errors"
	"lifequest/internal/profile"
	"lifequest/internal/token"
)

// insufficientErr builds the refusal error for an unaffordable action.
// Raised before any award or network activity so no state is touched.
func insufficientErr(p profile.UserProfile, cost int) error {
	return errors.NewInsufficientTokens(cost, p.Tokens)
}

// TruncateDay zeroes the time-of-day, keeping the location. All streak
// arithmetic runs at day granularity.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayDiff returns the whole days elapsed between the last prompt date and
// now. ok is false when there is no prior prompt date.
func DayDiff(last *time.Time, now time.Time) (diff int, ok bool) {
	if last == nil {
		return 0, false
	}
	d := TruncateDay(now).Sub(TruncateDay(*last))
	return int(d.Hours() / 24), true
}

// IsNewDay reports whether now falls on a later calendar day than the
// profile's last submission. A profile with no prior submission counts as a
// new day. A clock that moved backward (negative day diff) is treated as
// the same day rather than inheriting undefined arithmetic.
func IsNewDay(p profile.UserProfile, now time.Time) bool {
	diff, ok := DayDiff(p.LastPromptDate, now)
	if !ok {
		return true
	}
	return diff > 0
}

// NextStreak computes the streak after a submission at now, given the
// last prompt date as of before this submission.
//   - no prior date: streak starts at 1
//   - same day (or clock regression): unchanged
//   - consecutive day: incremented
//   - gap of more than one day: reset to 1
func NextStreak(current int, last *time.Time, now time.Time) int {
	diff, ok := DayDiff(last, now)
	if !ok {
		return 1
	}
	switch {
	case diff <= 0:
		return current
	case diff == 1:
		return current + 1
	default:
		return 1
	}
}

// ApplyChanges applies validated attribute deltas, flooring each value at
// zero. Entries naming unknown attribute ids are skipped; the model
// occasionally invents attributes and those must stay inert.
func ApplyChanges(p profile.UserProfile, changes []profile.AttributeChange) profile.UserProfile {
	out := p.Clone()
	for _, c := range changes {
		if !attr.ValidID(c.Attribute) {
			continue
		}
		a := out.Attribute(c.Attribute)
		a.Value = attr.Clamp(a.Value + c.Change)
	}
	return out
}

// ChargeReflection runs the pre-provider half of a reflection update:
// affordability check, reward eligibility against pre-submission state,
// awards, and the reflection spend. The returned profile still carries the
// original LastPromptDate so SettleReflection can compute the streak from
// pre-submission state. Tokens spent here are not refunded if the provider
// call that follows fails.
func ChargeReflection(p profile.UserProfile, now time.Time) (profile.UserProfile, []token.Reward, error) {
	if !token.CanAfford(p, token.CostReflection) {
		return p, nil, insufficientErr(p, token.CostReflection)
	}

	isNewDay := IsNewDay(p, now)
	rewards := token.PendingRewards(p, isNewDay)

	out := p
	for _, r := range rewards {
		out = token.Award(out, r)
	}

	out, err := token.Spend(out, token.CostReflection)
	if err != nil {
		// Unreachable after the affordability check plus awards, but spend
		// errors still propagate rather than panic.
		return p, nil, err
	}
	return out, rewards, nil
}

// SettleReflection runs the post-provider half: attribute application,
// prompt counter, and streak. The streak is computed from the profile's
// LastPromptDate before it is overwritten with now.
func SettleReflection(p profile.UserProfile, changes []profile.AttributeChange, now time.Time) profile.UserProfile {
	out := ApplyChanges(p, changes)
	out.TotalPrompts++
	out.Streak = NextStreak(out.Streak, out.LastPromptDate, now)
	stamp := now
	out.LastPromptDate = &stamp
	out.IsFirstTime = false
	return out
}

// ApplyReflection is the full reflection transformation for a validated
// response already in hand: charge then settle. Ops uses the two halves
// separately so the spend persists across the provider call.
func ApplyReflection(p profile.UserProfile, changes []profile.AttributeChange, now time.Time) (profile.UserProfile, []token.Reward, error) {
	charged, rewards, err := ChargeReflection(p, now)
	if err != nil {
		return p, nil, err
	}
	return SettleReflection(charged, changes, now), rewards, nil
}

// ChargeAnalysis spends the character-analysis cost. No streak, reward, or
// attribute mutation applies to the analysis flow.
func ChargeAnalysis(p profile.UserProfile) (profile.UserProfile, error) {
	if !token.CanAfford(p, token.CostAnalysis) {
		return p, insufficientErr(p, token.CostAnalysis)
	}
	return token.Spend(p, token.CostAnalysis)
}
