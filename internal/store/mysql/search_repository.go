package mysql

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/goto/fulltext/core/fulltext"
	"github.com/goto/fulltext/core/validator"
	"github.com/goto/fulltext/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/jmoiron/sqlx"
)

const (
	metricSearchDuration = "search.duration"
	metricSearchTotal    = "search.total"
	metricSearchRows     = "search.rows"
)

// Page limits a search result window
type Page struct {
	Size   int `json:"size" validate:"omitempty,gte=0"`
	Offset int `json:"offset" validate:"omitempty,gte=0"`
}

func (p Page) Validate() error {
	return validator.ValidateStruct(p)
}

// SearchRepository executes full-text searches built by core/fulltext
type SearchRepository struct {
	client            *Client
	logger            log.Logger
	reporter          *statsd.Reporter
	defaultGetMaxSize int
}

// Search runs s and scans the matching rows into dest, a pointer to a slice.
// Related fields are selected as "relation.field" and scan into nested structs.
func (r *SearchRepository) Search(ctx context.Context, dest interface{}, s *fulltext.Search, page Page) (err error) {
	var rows int
	defer r.observe("search", s, time.Now(), &rows, &err)

	query, args, err := r.buildSearchSQL(s, page)
	if err != nil {
		return err
	}

	if err := r.client.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("error running search query: %w", checkMySQLError(err))
	}
	rows = sliceLen(dest)
	return nil
}

// SearchMaps runs s and returns every row as a column to value map. Byte
// slices are converted to strings.
func (r *SearchRepository) SearchMaps(ctx context.Context, s *fulltext.Search, page Page) (rows []map[string]interface{}, err error) {
	var total int
	defer r.observe("search", s, time.Now(), &total, &err)

	query, args, err := r.buildSearchSQL(s, page)
	if err != nil {
		return nil, err
	}

	err = r.client.QueryFn(ctx, func(conn *sqlx.Conn) error {
		result, err := conn.QueryxContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer result.Close()

		for result.Next() {
			row := map[string]interface{}{}
			if err := result.MapScan(row); err != nil {
				return err
			}
			for k, v := range row {
				if b, ok := v.([]byte); ok {
					row[k] = string(b)
				}
			}
			rows = append(rows, row)
		}
		return result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("error running search query: %w", checkMySQLError(err))
	}
	total = len(rows)
	return rows, nil
}

// Count returns the number of rows matching s
func (r *SearchRepository) Count(ctx context.Context, s *fulltext.Search) (total int, err error) {
	defer r.observe("count", s, time.Now(), &total, &err)

	if s == nil {
		return 0, errNilSearch
	}

	query, args, err := s.Count().ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building count query: %w", err)
	}

	if err := r.client.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("error running count query: %w", checkMySQLError(err))
	}
	return total, nil
}

func (r *SearchRepository) buildSearchSQL(s *fulltext.Search, page Page) (string, []interface{}, error) {
	if s == nil {
		return "", nil, errNilSearch
	}
	if err := page.Validate(); err != nil {
		return "", nil, err
	}

	size := page.Size
	if size == 0 {
		size = r.defaultGetMaxSize
	}

	builder := s.Select().Limit(uint64(size))
	if page.Offset > 0 {
		builder = builder.Offset(uint64(page.Offset))
	}

	query, args, err := builder.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("error building search query: %w", err)
	}
	return query, args, nil
}

func (r *SearchRepository) observe(op string, s *fulltext.Search, start time.Time, rows *int, errp *error) {
	elapsed := time.Since(start)

	mode := "DEFAULT"
	if s != nil && s.Mode() != fulltext.ModeDefault {
		mode = strings.ReplaceAll(s.Mode().String(), " ", "_")
	}

	if err := *errp; err != nil {
		r.logger.Error("full-text search failed", "op", op, "mode", mode, "err", err)
	} else {
		r.logger.Debug("full-text search done", "op", op, "mode", mode, "rows", *rows, "took", elapsed.String())
		r.reporter.Histogram(metricSearchRows, float64(*rows)).
			Tag("op", op).
			Tag("mode", mode).
			Publish()
	}

	r.reporter.Timing(metricSearchDuration, elapsed).
		Tag("op", op).
		Tag("mode", mode).
		Result(*errp).
		Publish()
	r.reporter.Incr(metricSearchTotal).
		Tag("op", op).
		Result(*errp).
		Publish()
}

// sliceLen returns the length of the slice dest points to
func sliceLen(dest interface{}) int {
	v := reflect.Indirect(reflect.ValueOf(dest))
	if v.Kind() != reflect.Slice {
		return 0
	}
	return v.Len()
}

// NewSearchRepository initializes search repository
func NewSearchRepository(c *Client, logger log.Logger, reporter *statsd.Reporter, defaultGetMaxSize int) (*SearchRepository, error) {
	if c == nil {
		return nil, errNilMySQLClient
	}
	if logger == nil {
		logger = log.NewNoop()
	}
	if defaultGetMaxSize == 0 {
		defaultGetMaxSize = DefaultMaxResultSize
	}

	return &SearchRepository{
		client:            c,
		logger:            logger,
		reporter:          reporter,
		defaultGetMaxSize: defaultGetMaxSize,
	}, nil
}
