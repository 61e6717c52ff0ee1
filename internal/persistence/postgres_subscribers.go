package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"newsbrief/internal/core"
)

// postgresSubscriberRepo implements SubscriberRepository for PostgreSQL.
type postgresSubscriberRepo struct {
	db *sql.DB
}

func (r *postgresSubscriberRepo) Upsert(ctx context.Context, sub *core.Subscriber) error {
	email := strings.ToLower(strings.TrimSpace(sub.Email))
	if email == "" {
		return fmt.Errorf("subscriber email is required")
	}
	now := time.Now().UTC()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO subscriber (email, creation_time, update_time, preferences, age_range, gender, country, ai_involvement, reason)
		VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			update_time = EXCLUDED.update_time,
			preferences = EXCLUDED.preferences,
			age_range = EXCLUDED.age_range,
			gender = EXCLUDED.gender,
			country = EXCLUDED.country,
			ai_involvement = EXCLUDED.ai_involvement,
			reason = EXCLUDED.reason
		RETURNING subscriber_id, creation_time
	`, email, now, sub.Preferences, sub.AgeRange, sub.Gender,
		sub.Country, sub.AIInvolvement, sub.Reason,
	).Scan(&sub.ID, &sub.CreationTime)
	if err != nil {
		return fmt.Errorf("failed to upsert subscriber %s: %w", email, err)
	}
	sub.Email = email
	sub.UpdateTime = now
	return nil
}

func (r *postgresSubscriberRepo) Remove(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscriber WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to remove subscriber %s: %w", email, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removal of %s: %w", email, err)
	}
	if affected == 0 {
		return fmt.Errorf("subscriber %s not found", email)
	}
	return nil
}

func (r *postgresSubscriberRepo) List(ctx context.Context) ([]core.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT subscriber_id, email, creation_time, update_time, preferences, age_range, gender, country, ai_involvement, reason
		FROM subscriber
		ORDER BY creation_time
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []core.Subscriber
	for rows.Next() {
		var sub core.Subscriber
		var preferences, ageRange, gender, country, involvement, reason sql.NullString
		err := rows.Scan(&sub.ID, &sub.Email, &sub.CreationTime, &sub.UpdateTime,
			&preferences, &ageRange, &gender, &country, &involvement, &reason)
		if err != nil {
			return nil, err
		}
		sub.Preferences = preferences.String
		sub.AgeRange = ageRange.String
		sub.Gender = gender.String
		sub.Country = country.String
		sub.AIInvolvement = involvement.String
		sub.Reason = reason.String
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
