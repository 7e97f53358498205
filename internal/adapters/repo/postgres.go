package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/metrics"
)

// Postgres stores articles, analyses and comparisons as jsonb documents.
// The engine defines their shape; this layer only assigns ids and encodes.
type Postgres struct {
	pool *pgxpool.Pool
}

var (
	_ domain.ArticleRepo    = (*Postgres)(nil)
	_ domain.AnalysisRepo   = (*Postgres)(nil)
	_ domain.ComparisonRepo = (*Postgres)(nil)
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewPostgres builds the store adapter.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// SaveArticles assigns ids to new articles and upserts their documents.
func (p *Postgres) SaveArticles(ctx context.Context, articles []domain.EnrichedArticle) ([]domain.EnrichedArticle, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	saved := make([]domain.EnrichedArticle, 0, len(articles))
	for _, article := range articles {
		if article.ID == "" {
			article.ID = uuid.NewString()
		}
		doc, err := json.Marshal(article)
		if err != nil {
			return nil, fmt.Errorf("encode article: %w", err)
		}
		start := time.Now()
		_, err = p.pool.Exec(ctx, `
INSERT INTO articles (id, source, doc, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc
`, article.ID, article.Source, doc)
		metrics.ObserveNetworkRequest("postgres", "article_upsert", "articles", start, err)
		if err != nil {
			return nil, fmt.Errorf("save article: %w", err)
		}
		saved = append(saved, article)
	}
	return saved, nil
}

// GetArticle loads one article document.
func (p *Postgres) GetArticle(ctx context.Context, id string) (domain.EnrichedArticle, error) {
	var article domain.EnrichedArticle
	if err := p.getDoc(ctx, "articles", id, &article); err != nil {
		return domain.EnrichedArticle{}, err
	}
	return article, nil
}

// ListArticles returns one page of articles, newest first, plus the total
// count.
func (p *Postgres) ListArticles(ctx context.Context, page, perPage int) ([]domain.EnrichedArticle, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	query, args, err := psql.Select("doc").
		From("articles").
		OrderBy("created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	start := time.Now()
	rows, err := p.pool.Query(ctx, query, args...)
	metrics.ObserveNetworkRequest("postgres", "article_list", "articles", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.EnrichedArticle
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		var article domain.EnrichedArticle
		if err := json.Unmarshal(doc, &article); err != nil {
			return nil, 0, fmt.Errorf("decode article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("articles").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := p.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}
	return articles, total, nil
}

// SaveAnalysis persists one pipeline run.
func (p *Postgres) SaveAnalysis(ctx context.Context, analysis domain.Analysis) (domain.Analysis, error) {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}
	if err := p.insertDoc(ctx, "analyses", "analysis_insert", analysis.ID, analysis); err != nil {
		return domain.Analysis{}, err
	}
	return analysis, nil
}

// GetAnalysis loads one pipeline run.
func (p *Postgres) GetAnalysis(ctx context.Context, id string) (domain.Analysis, error) {
	var analysis domain.Analysis
	if err := p.getDoc(ctx, "analyses", id, &analysis); err != nil {
		return domain.Analysis{}, err
	}
	return analysis, nil
}

// SaveComparison persists one comparison result.
func (p *Postgres) SaveComparison(ctx context.Context, comparison domain.StoredComparison) (domain.StoredComparison, error) {
	if comparison.ID == "" {
		comparison.ID = uuid.NewString()
	}
	if comparison.CreatedAt.IsZero() {
		comparison.CreatedAt = time.Now().UTC()
	}
	if err := p.insertDoc(ctx, "comparisons", "comparison_insert", comparison.ID, comparison); err != nil {
		return domain.StoredComparison{}, err
	}
	return comparison, nil
}

// GetComparison loads one comparison result.
func (p *Postgres) GetComparison(ctx context.Context, id string) (domain.StoredComparison, error) {
	var comparison domain.StoredComparison
	if err := p.getDoc(ctx, "comparisons", id, &comparison); err != nil {
		return domain.StoredComparison{}, err
	}
	return comparison, nil
}

func (p *Postgres) insertDoc(ctx context.Context, table, operation, id string, value any) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", table, err)
	}
	start := time.Now()
	_, err = p.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc, created_at) VALUES ($1, $2, now())`, table),
		id, doc)
	metrics.ObserveNetworkRequest("postgres", operation, table, start, err)
	if err != nil {
		return fmt.Errorf("save %s document: %w", table, err)
	}
	return nil
}

func (p *Postgres) getDoc(ctx context.Context, table, id string, out any) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	query, args, err := psql.Select("doc").From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build get query: %w", err)
	}
	start := time.Now()
	var doc []byte
	err = p.pool.QueryRow(ctx, query, args...).Scan(&doc)
	metrics.ObserveNetworkRequest("postgres", table+"_get", table, start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("load %s document: %w", table, err)
	}
	if err := json.Unmarshal(doc, out); err != nil {
		return fmt.Errorf("decode %s document: %w", table, err)
	}
	return nil
}
