package mysql

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers
const (
	erBadFieldError         = 1054
	erFTMatchingKeyNotFound = 1191
	erWrongArguments        = 1210
	erTableCantHandleFT     = 1214
)

var (
	errNilDBClient    = errors.New("db client is nil")
	errNilMySQLClient = errors.New("mysql client is nil")
	errNilSearch      = errors.New("search is nil")

	// ErrMissingFulltextIndex means no FULLTEXT index covers exactly the
	// searched columns. Creating it is an operator task.
	ErrMissingFulltextIndex = errors.New("no FULLTEXT index matches the searched columns")
	ErrEngineUnsupported    = errors.New("table engine does not support FULLTEXT indexes")
	ErrIncorrectMatch       = errors.New("incorrect arguments to MATCH")
	ErrUnknownColumn        = errors.New("unknown column")
)

func checkMySQLError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erFTMatchingKeyNotFound:
			return fmt.Errorf("%w [%s]", ErrMissingFulltextIndex, myErr.Message)
		case erTableCantHandleFT:
			return fmt.Errorf("%w [%s]", ErrEngineUnsupported, myErr.Message)
		case erWrongArguments:
			return fmt.Errorf("%w [%s]", ErrIncorrectMatch, myErr.Message)
		case erBadFieldError:
			return fmt.Errorf("%w [%s]", ErrUnknownColumn, myErr.Message)
		}
	}
	return err
}
