package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fashionstore-chatbot/internal/chatbot/filter"
	apperrors "fashionstore-chatbot/internal/common/errors"
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/common/metrics"
	"fashionstore-chatbot/internal/models"
)

const productColumns = "id, name, description, price, category, subcategory, gender, color, size, available, stock"

// PostgresStore interprets predicate trees as parameterized SQL over the
// products table.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "catalog.postgres"}),
	}
}

func (s *PostgresStore) Search(ctx context.Context, expr filter.Expr, limit int) ([]models.Product, error) {
	if expr == nil {
		return nil, nil
	}

	var args []interface{}
	clause, err := renderSQL(expr, &args)
	if err != nil {
		return nil, apperrors.NewCatalogQueryFailedError("postgres", err)
	}

	args = append(args, limit)
	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE available = TRUE AND (%s) ORDER BY id LIMIT $%d",
		productColumns, clause, len(args),
	)

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	metrics.CatalogQueryDuration.WithLabelValues("postgres").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogQueryFailures.WithLabelValues("postgres").Inc()
		s.logger.WithError(err).Error("catalog search failed", map[string]interface{}{
			"predicate": expr.String(),
		})
		return nil, apperrors.NewCatalogQueryFailedError("postgres", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewCatalogQueryFailedError("postgres", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewCatalogQueryFailedError("postgres", err)
	}

	return products, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (models.Product, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns), id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return models.Product{}, apperrors.NewProductNotFoundError(id)
	}
	if err != nil {
		return models.Product{}, apperrors.NewCatalogQueryFailedError("postgres", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var (
		p                      models.Product
		subcategory, color, sz sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&subcategory, &p.Gender, &color, &sz, &p.Available, &p.Stock)
	if err != nil {
		return models.Product{}, err
	}
	p.Subcategory = subcategory.String
	p.Color = color.String
	p.Size = sz.String
	return p, nil
}

// renderSQL walks the predicate tree and emits a WHERE fragment with $n
// placeholders, appending bound values to args.
func renderSQL(e filter.Expr, args *[]interface{}) (string, error) {
	switch v := e.(type) {
	case filter.And:
		return renderSQLGroup(v.Exprs, " AND ", args)
	case filter.Or:
		return renderSQLGroup(v.Exprs, " OR ", args)
	case filter.Not:
		inner, err := renderSQL(v.Expr, args)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case filter.Contains:
		col, err := columnFor(v.Field)
		if err != nil {
			return "", err
		}
		*args = append(*args, "%"+escapeLike(v.Value)+"%")
		return fmt.Sprintf("%s ILIKE $%d", col, len(*args)), nil
	case filter.Equals:
		col, err := columnFor(v.Field)
		if err != nil {
			return "", err
		}
		*args = append(*args, v.Value)
		return fmt.Sprintf("LOWER(%s) = LOWER($%d)", col, len(*args)), nil
	case filter.Between:
		col, err := columnFor(v.Field)
		if err != nil {
			return "", err
		}
		*args = append(*args, v.Min)
		min := len(*args)
		*args = append(*args, v.Max)
		return fmt.Sprintf("(%s >= $%d AND %s <= $%d)", col, min, col, len(*args)), nil
	default:
		return "", fmt.Errorf("unsupported predicate node %T", e)
	}
}

func renderSQLGroup(exprs []filter.Expr, sep string, args *[]interface{}) (string, error) {
	if len(exprs) == 0 {
		return "", fmt.Errorf("empty predicate group")
	}
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		inner, err := renderSQL(e, args)
		if err != nil {
			return "", err
		}
		parts[i] = "(" + inner + ")"
	}
	return strings.Join(parts, sep), nil
}

// likeEscaper neutralizes LIKE metacharacters so a contains value is matched
// as a literal substring ("100% cotton" must not widen the pattern).
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func columnFor(f filter.Field) (string, error) {
	switch f {
	case filter.FieldName, filter.FieldDescription, filter.FieldCategory,
		filter.FieldSubcategory, filter.FieldGender, filter.FieldColor,
		filter.FieldSize, filter.FieldPrice:
		return string(f), nil
	}
	return "", fmt.Errorf("unknown predicate field %q", f)
}
