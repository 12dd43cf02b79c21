// Package token implements the token economy: affordability, spend, award,
// and reward eligibility. All functions are pure; they take a profile value
// and return a new one, never mutating the input.
package token

import (
	"lifequest/internal/errors"
	"lifequest/internal/profile"
)

// Costs for the two paid actions.
const (
	CostReflection = 1
	CostAnalysis   = 5
)

// Reward amounts for passive triggers.
const (
	RewardDailyLogin      = 1
	RewardStreak7Days     = 5
	RewardStreak30Days    = 15
	RewardFirstReflection = 2
	RewardAchievement     = 3
)

// RewardType tags a reward for analytics and UI grouping.
type RewardType string

const (
	TypeDailyLogin  RewardType = "daily_login"
	TypeStreakBonus RewardType = "streak_bonus"
	TypeAchievement RewardType = "achievement"
	TypeSpecial     RewardType = "special"
)

// Reward is a pending token grant with a display reason.
type Reward struct {
	Amount int        `json:"amount"`
	Reason string     `json:"reason"`
	Type   RewardType `json:"type"`
}

// CanAfford reports whether the profile balance covers cost.
func CanAfford(p profile.UserProfile, cost int) bool {
	return p.Tokens >= cost
}

// Spend deducts cost from the balance. Fails with InsufficientTokens and
// returns the profile unchanged when the balance cannot cover it.
func Spend(p profile.UserProfile, cost int) (profile.UserProfile, error) {
	if !CanAfford(p, cost) {
		return p, errors.NewInsufficientTokens(cost, p.Tokens)
	}
	out := p.Clone()
	out.Tokens -= cost
	out.TotalTokensSpent += cost
	return out, nil
}

// Award unconditionally credits the reward. There is no upper bound on
// tokens.
func Award(p profile.UserProfile, r Reward) profile.UserProfile {
	out := p.Clone()
	out.Tokens += r.Amount
	out.TotalTokensEarned += r.Amount
	return out
}

// PendingRewards returns the rewards the profile is eligible for, evaluated
// against pre-submission state. The daily-login reward and the first-
// reflection bonus are independent; the streak milestones are mutually
// exclusive with each other. Streak and prompt-count checks intentionally
// see pre-update values, so a streak milestone fires on the submission
// after the streak reaches it.
func PendingRewards(p profile.UserProfile, isNewDay bool) []Reward {
	var rewards []Reward

	if isNewDay {
		rewards = append(rewards, Reward{
			Amount: RewardDailyLogin,
			Reason: "Daily login bonus",
			Type:   TypeDailyLogin,
		})
	}

	if p.Streak == 7 {
		rewards = append(rewards, Reward{
			Amount: RewardStreak7Days,
			Reason: "7-day streak bonus!",
			Type:   TypeStreakBonus,
		})
	} else if p.Streak == 30 {
		rewards = append(rewards, Reward{
			Amount: RewardStreak30Days,
			Reason: "30-day streak bonus!",
			Type:   TypeStreakBonus,
		})
	}

	if p.TotalPrompts == 0 {
		rewards = append(rewards, Reward{
			Amount: RewardFirstReflection,
			Reason: "First reflection bonus",
			Type:   TypeSpecial,
		})
	}

	return rewards
}

// StatusMessage returns a display message and color for the given balance.
func StatusMessage(tokens int) (message, color string) {
	switch {
	case tokens == 0:
		return "No tokens remaining", "#f87171"
	case tokens <= 3:
		return "Running low on tokens", "#f59e0b"
	case tokens <= 10:
		return "Good token balance", "#ffd700"
	default:
		return "Excellent token balance", "#4ade80"
	}
}
