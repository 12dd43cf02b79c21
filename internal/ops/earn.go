package ops

import (
	"database/sql"

	"lifequest/internal/db"
	"lifequest/internal/token"
)

// EarnOutput contains the result of the Earn operation.
type EarnOutput struct {
	Earned bool          `json:"earned"`
	Reward *token.Reward `json:"reward,omitempty"`
	Tokens int           `json:"tokens"`
}

// Earn claims a reward from an external source (a promo grant, a sponsored
// bonus). When the source has nothing ready the balance is returned
// unchanged.
func Earn(database *sql.DB, source token.RewardSource) (*EarnOutput, error) {
	p, err := db.LoadProfile(database)
	if err != nil {
		return nil, err
	}

	if err := source.Initialize(); err != nil {
		return nil, err
	}
	if !source.IsRewardReady() {
		return &EarnOutput{Earned: false, Tokens: p.Tokens}, nil
	}

	reward, err := source.ShowReward()
	if err != nil {
		return nil, err
	}
	p = token.Award(p, reward)
	if err := db.SaveProfile(database, p); err != nil {
		return nil, err
	}

	return &EarnOutput{Earned: true, Reward: &reward, Tokens: p.Tokens}, nil
}
