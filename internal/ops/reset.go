package ops

import (
	"database/sql"

	"lifequest/internal/db"
)

// Reset wipes the profile and history back to a fresh start. Destructive
// and unconditional; callers confirm before invoking.
func Reset(database *sql.DB) (*ProfileOutput, error) {
	if err := db.ResetAll(database); err != nil {
		return nil, err
	}
	p, err := db.LoadProfile(database)
	if err != nil {
		return nil, err
	}
	return profileOutput(p), nil
}
