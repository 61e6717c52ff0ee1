package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"newsbrief/internal/core"
)

// postgresEditionRepo implements EditionRepository for PostgreSQL.
type postgresEditionRepo struct {
	db *sql.DB
}

// Create numbers the edition within its title series and links the selected
// articles in a single transaction so concurrent runs never share a number.
func (r *postgresEditionRepo) Create(ctx context.Context, edition *core.Edition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin edition transaction: %w", err)
	}
	defer tx.Rollback()

	var editionNumber int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(edition_number), 0) + 1
		FROM newsletter
		WHERE newsletter_title = $1
	`, edition.NewsletterTitle).Scan(&editionNumber)
	if err != nil {
		return fmt.Errorf("failed to compute edition number: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO newsletter (creation, edition_number, introduction, top_news_id, top_news, newsletter_title)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING newsletter_id
	`, edition.Creation, editionNumber, edition.Introduction, edition.TopNewsID,
		edition.TopNews, edition.NewsletterTitle).Scan(&edition.ID)
	if err != nil {
		return fmt.Errorf("failed to insert edition: %w", err)
	}

	for _, newsID := range edition.SelectedIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO newsletter_articles (newsletter_id, news_id)
			VALUES ($1, $2)
		`, edition.ID, newsID)
		if err != nil {
			return fmt.Errorf("failed to link article %d to edition: %w", newsID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit edition: %w", err)
	}
	edition.EditionNumber = editionNumber
	return nil
}

func (r *postgresEditionRepo) Latest(ctx context.Context) (*core.Edition, error) {
	var edition core.Edition
	var html sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT newsletter_id, creation, edition_number, introduction, top_news_id, top_news, newsletter_title, html
		FROM newsletter
		ORDER BY creation DESC, newsletter_id DESC
		LIMIT 1
	`).Scan(&edition.ID, &edition.Creation, &edition.EditionNumber, &edition.Introduction,
		&edition.TopNewsID, &edition.TopNews, &edition.NewsletterTitle, &html)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no newsletter editions exist yet")
		}
		return nil, fmt.Errorf("failed to load latest edition: %w", err)
	}
	edition.HTML = ptrOf(html)

	rows, err := r.db.QueryContext(ctx, `
		SELECT news_id FROM newsletter_articles WHERE newsletter_id = $1 ORDER BY news_id
	`, edition.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load edition articles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var newsID int64
		if err := rows.Scan(&newsID); err != nil {
			return nil, err
		}
		edition.SelectedIDs = append(edition.SelectedIDs, newsID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &edition, nil
}

func (r *postgresEditionRepo) UpdateHTML(ctx context.Context, id int64, html string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE newsletter SET html = $2 WHERE newsletter_id = $1`, id, html)
	if err != nil {
		return fmt.Errorf("failed to store rendered newsletter %d: %w", id, err)
	}
	return nil
}
