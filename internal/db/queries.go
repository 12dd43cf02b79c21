package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"lifequest/internal/attr"
	"lifequest/internal/errors"
	"lifequest/internal/profile"
)

// LoadProfile retrieves the single profile row, or a fresh default profile
// when none has been saved yet.
func LoadProfile(db *sql.DB) (profile.UserProfile, error) {
	row := db.QueryRow(`
		SELECT attributes_json, total_prompts, streak, last_prompt_date,
			character_name, is_first_time, tokens, total_tokens_earned,
			total_tokens_spent
		FROM profile WHERE id = 1
	`)

	var (
		attrsJSON string
		p         profile.UserProfile
		lastDate  sql.NullString
		charName  sql.NullString
		firstTime int
	)
	err := row.Scan(&attrsJSON, &p.TotalPrompts, &p.Streak, &lastDate,
		&charName, &firstTime, &p.Tokens, &p.TotalTokensEarned, &p.TotalTokensSpent)
	if err == sql.ErrNoRows {
		return profile.New(), nil
	}
	if err != nil {
		return profile.UserProfile{}, errors.NewInternal(err)
	}

	var attrs []attr.Attribute
	if err := json.Unmarshal([]byte(attrsJSON), &attrs); err != nil {
		return profile.UserProfile{}, errors.NewInternal(err)
	}
	p.Attributes = attrs
	p.IsFirstTime = firstTime != 0
	p.CharacterName = charName.String

	if lastDate.Valid && lastDate.String != "" {
		t, err := time.Parse(time.RFC3339, lastDate.String)
		if err != nil {
			return profile.UserProfile{}, errors.NewInternal(err)
		}
		local := t.Local()
		p.LastPromptDate = &local
	}

	return p, nil
}

// SaveProfile upserts the single profile row. LastPromptDate is serialized
// as an ISO-8601 string or NULL.
func SaveProfile(db *sql.DB, p profile.UserProfile) error {
	attrsJSON, err := json.Marshal(p.Attributes)
	if err != nil {
		return errors.NewInternal(err)
	}

	var lastDate sql.NullString
	if p.LastPromptDate != nil {
		lastDate = sql.NullString{String: p.LastPromptDate.Format(time.RFC3339), Valid: true}
	}
	var charName sql.NullString
	if p.CharacterName != "" {
		charName = sql.NullString{String: p.CharacterName, Valid: true}
	}
	firstTime := 0
	if p.IsFirstTime {
		firstTime = 1
	}

	query := `
		INSERT INTO profile (
			id, attributes_json, total_prompts, streak, last_prompt_date,
			character_name, is_first_time, tokens, total_tokens_earned,
			total_tokens_spent, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			attributes_json = excluded.attributes_json,
			total_prompts = excluded.total_prompts,
			streak = excluded.streak,
			last_prompt_date = excluded.last_prompt_date,
			character_name = excluded.character_name,
			is_first_time = excluded.is_first_time,
			tokens = excluded.tokens,
			total_tokens_earned = excluded.total_tokens_earned,
			total_tokens_spent = excluded.total_tokens_spent,
			updated_at = excluded.updated_at
	`
	_, err = db.Exec(query, string(attrsJSON), p.TotalPrompts, p.Streak, lastDate,
		charName, firstTime, p.Tokens, p.TotalTokensEarned, p.TotalTokensSpent,
		time.Now().Unix())
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// InsertHistory prepends a history record and evicts everything beyond the
// newest limit records. Ordering is most-recent-first by creation time.
func InsertHistory(db *sql.DB, r profile.PromptResponse, limit int) error {
	changesJSON, err := json.Marshal(r.AttributeChanges)
	if err != nil {
		return errors.NewInternal(err)
	}

	var characterJSON sql.NullString
	if r.CharacterAnalysis != nil {
		data, err := json.Marshal(r.CharacterAnalysis)
		if err != nil {
			return errors.NewInternal(err)
		}
		characterJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err = db.Exec(`
		INSERT INTO history (id, prompt, analysis, changes_json, type, character_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Prompt, r.Analysis, string(changesJSON), r.Type, characterJSON,
		r.Timestamp.UnixNano())
	if err != nil {
		return errors.NewInternal(err)
	}

	if limit <= 0 {
		limit = profile.HistoryCap
	}
	_, err = db.Exec(`
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY created_at DESC, id DESC LIMIT ?
		)
	`, limit)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListHistory returns history records most-recent-first. typeFilter narrows
// to one record type when non-empty.
func ListHistory(db *sql.DB, limit, offset int, typeFilter string) ([]profile.PromptResponse, error) {
	query := `
		SELECT id, prompt, analysis, changes_json, type, character_json, created_at
		FROM history
	`
	var args []any
	if typeFilter != "" {
		query += " WHERE type = ?"
		args = append(args, typeFilter)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var records []profile.PromptResponse
	for rows.Next() {
		r, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// GetHistory retrieves one history record by id.
func GetHistory(db *sql.DB, id string) (*profile.PromptResponse, error) {
	row := db.QueryRow(`
		SELECT id, prompt, analysis, changes_json, type, character_json, created_at
		FROM history WHERE id = ?
	`, id)

	r, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		if _, ok := err.(*errors.QuestError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// CountHistory returns the number of retained history records, optionally
// narrowed by type.
func CountHistory(db *sql.DB, typeFilter string) (int, error) {
	query := "SELECT COUNT(*) FROM history"
	var args []any
	if typeFilter != "" {
		query += " WHERE type = ?"
		args = append(args, typeFilter)
	}
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// ResetAll clears the profile and history. The next LoadProfile returns
// defaults.
func ResetAll(db *sql.DB) error {
	if _, err := db.Exec("DELETE FROM profile"); err != nil {
		return errors.NewInternal(err)
	}
	if _, err := db.Exec("DELETE FROM history"); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// scanner abstracts over *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanHistory scans one history row into a PromptResponse.
func scanHistory(s scanner) (*profile.PromptResponse, error) {
	var (
		r             profile.PromptResponse
		changesJSON   string
		characterJSON sql.NullString
		createdAt     int64
	)
	if err := s.Scan(&r.ID, &r.Prompt, &r.Analysis, &changesJSON, &r.Type,
		&characterJSON, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(changesJSON), &r.AttributeChanges); err != nil {
		return nil, errors.NewInternal(err)
	}
	if characterJSON.Valid {
		var ca profile.CharacterAnalysis
		if err := json.Unmarshal([]byte(characterJSON.String), &ca); err != nil {
			return nil, errors.NewInternal(err)
		}
		r.CharacterAnalysis = &ca
	}
	r.Timestamp = time.Unix(0, createdAt)

	return &r, nil
}
