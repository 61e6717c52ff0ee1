package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"newsbrief/internal/core"
)

const articleColumns = `news_id, title, author, publication_date, link, base_url, source_page,
	   article, keywords, main_category, summary, influential_factor, created_time`

// postgresArticleRepo implements ArticleRepository for PostgreSQL.
type postgresArticleRepo struct {
	db *sql.DB
}

func (r *postgresArticleRepo) InsertStubs(ctx context.Context, stubs []core.ArticleStub) (int, error) {
	query := `
		INSERT INTO news (title, author, publication_date, link, base_url, source_page, created_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (title) DO NOTHING
	`
	createdTime := time.Now().UTC()

	inserted := 0
	for _, stub := range stubs {
		if !stub.Valid() {
			continue
		}
		result, err := r.db.ExecContext(ctx, query,
			stub.Title, nullString(stub.Author), nullString(stub.PublicationDate),
			stub.Link, stub.BaseURL, stub.SourcePage, createdTime,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert stub %q: %w", stub.Title, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to check rows affected for %q: %w", stub.Title, err)
		}
		inserted += int(affected)
	}
	return inserted, nil
}

func (r *postgresArticleRepo) Get(ctx context.Context, id int64) (*core.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM news WHERE news_id = $1`
	return scanArticle(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresArticleRepo) GetByIDs(ctx context.Context, ids []int64) ([]core.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + articleColumns + ` FROM news WHERE news_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query articles by ids: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

func (r *postgresArticleRepo) ListIncomplete(ctx context.Context) ([]core.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news
		WHERE article IS NULL OR author IS NULL OR publication_date IS NULL
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomplete articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

func (r *postgresArticleRepo) FillDetails(ctx context.Context, id int64, body string, author, pubDate *string) error {
	// Author and publication date are fill-if-null only; the scraped body
	// always wins because rows without it would have been deleted.
	query := `
		UPDATE news
		SET article = $2,
		    author = COALESCE(author, $3),
		    publication_date = COALESCE(publication_date, $4)
		WHERE news_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, body, nullString(author), nullString(pubDate))
	if err != nil {
		return fmt.Errorf("failed to fill details for article %d: %w", id, err)
	}
	return nil
}

func (r *postgresArticleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE news_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article %d: %w", id, err)
	}
	return nil
}

func (r *postgresArticleRepo) PurgeBodyless(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE article IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge bodyless articles: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresArticleRepo) ListDated(ctx context.Context) ([]core.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM news WHERE publication_date IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dated articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

func (r *postgresArticleRepo) UpdatePublicationDate(ctx context.Context, id int64, date *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE news SET publication_date = $2 WHERE news_id = $1`, id, nullString(date))
	if err != nil {
		return fmt.Errorf("failed to update publication date for article %d: %w", id, err)
	}
	return nil
}

func (r *postgresArticleRepo) ListUncategorized(ctx context.Context) ([]core.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news
		WHERE article IS NOT NULL
		  AND (summary IS NULL OR keywords IS NULL OR main_category IS NULL)
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

func (r *postgresArticleRepo) UpdateEnrichment(ctx context.Context, id int64, keywords []string, mainCategory, summary string) error {
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}
	query := `
		UPDATE news
		SET keywords = $2, main_category = $3, summary = $4
		WHERE news_id = $1
	`
	_, err = r.db.ExecContext(ctx, query, id, keywordsJSON, mainCategory, summary)
	if err != nil {
		return fmt.Errorf("failed to update enrichment for article %d: %w", id, err)
	}
	return nil
}

func (r *postgresArticleRepo) ListUnscored(ctx context.Context) ([]core.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news
		WHERE title IS NOT NULL
		  AND summary IS NOT NULL
		  AND publication_date IS NOT NULL
		  AND influential_factor IS NULL
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unscored articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

func (r *postgresArticleRepo) UpdateInfluentialFactor(ctx context.Context, id int64, factor float64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE news SET influential_factor = $2 WHERE news_id = $1`, id, factor)
	if err != nil {
		return fmt.Errorf("failed to update influence score for article %d: %w", id, err)
	}
	return nil
}

func (r *postgresArticleRepo) TopInfluential(ctx context.Context, sinceDate string, limit int) ([]core.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news
		WHERE influential_factor IS NOT NULL
		  AND publication_date >= $1
		ORDER BY influential_factor DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, sinceDate, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*core.Article, error) {
	var article core.Article
	var author, pubDate, body, category, summary sql.NullString
	var keywordsJSON []byte
	var factor sql.NullFloat64

	err := row.Scan(
		&article.ID, &article.Title, &author, &pubDate, &article.Link,
		&article.BaseURL, &article.SourcePage, &body, &keywordsJSON,
		&category, &summary, &factor, &article.CreatedTime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("article not found")
		}
		return nil, err
	}

	article.Author = ptrOf(author)
	article.PublicationDate = ptrOf(pubDate)
	article.Body = ptrOf(body)
	article.MainCategory = ptrOf(category)
	article.Summary = ptrOf(summary)
	if factor.Valid {
		f := factor.Float64
		article.InfluentialFactor = &f
	}
	if len(keywordsJSON) > 0 {
		if err := json.Unmarshal(keywordsJSON, &article.Keywords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keywords for article %d: %w", article.ID, err)
		}
	}
	return &article, nil
}

func collectArticles(rows *sql.Rows) ([]core.Article, error) {
	var articles []core.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}
