package ops

import (
	"database/sql"

	"lifequest/internal/db"
	"lifequest/internal/errors"
	"lifequest/internal/profile"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int    // default 20, max 100
	Offset int    // default 0
	Type   string // optional: "reflection" or "character_analysis"
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Records    []profile.PromptResponse `json:"records"`
	Pagination Pagination               `json:"pagination"`
}

// List returns history records most-recent-first with pagination metadata.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}
	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}
	if input.Offset < 0 {
		input.Offset = 0
	}
	if input.Type != "" && input.Type != profile.TypeReflection && input.Type != profile.TypeCharacterAnalysis {
		return nil, errors.NewInvalidRequest("type must be one of: reflection, character_analysis")
	}

	records, err := db.ListHistory(database, input.Limit, input.Offset, input.Type)
	if err != nil {
		return nil, err
	}
	total, err := db.CountHistory(database, input.Type)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []profile.PromptResponse{}
	}

	return &ListOutput{
		Records: records,
		Pagination: Pagination{
			Limit:   input.Limit,
			Offset:  input.Offset,
			HasMore: input.Offset+len(records) < total,
			Total:   total,
		},
	}, nil
}

// Show retrieves one history record by id.
func Show(database *sql.DB, id string) (*profile.PromptResponse, error) {
	if id == "" {
		return nil, errors.NewMissingInput("id")
	}
	return db.GetHistory(database, id)
}
