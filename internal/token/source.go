package token

// RewardSource is an injected capability for earning tokens outside the
// passive triggers (e.g. a rewarded-media integration on mobile shells).
// The core never depends on a process-wide singleton; callers pass an
// instance.
type RewardSource interface {
	// Initialize prepares the source. Safe to call more than once.
	Initialize() error

	// IsRewardReady reports whether a reward can currently be shown.
	IsRewardReady() bool

	// ShowReward presents the reward flow and returns the earned reward.
	ShowReward() (Reward, error)
}

// PromoSource is the built-in RewardSource used by the CLI: a local promo
// grant with no external dependency. It is always ready once initialized.
type PromoSource struct {
	initialized bool
}

// NewPromoSource returns an uninitialized PromoSource.
func NewPromoSource() *PromoSource {
	return &PromoSource{}
}

func (s *PromoSource) Initialize() error {
	s.initialized = true
	return nil
}

func (s *PromoSource) IsRewardReady() bool {
	return s.initialized
}

func (s *PromoSource) ShowReward() (Reward, error) {
	return Reward{
		Amount: RewardAchievement,
		Reason: "Achievement unlocked",
		Type:   TypeAchievement,
	}, nil
}
