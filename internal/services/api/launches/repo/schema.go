package repo

import (
	"embed"

	"launchdeck/internal/core/query/querysql"
)

//go:embed schema/*.sql
var ddl embed.FS

// DDL returns the idempotent schema for d
func DDL(d querysql.Dialect) string {
	b, err := ddl.ReadFile("schema/" + d.String() + ".sql")
	if err != nil {
		panic("launches: no schema for dialect " + d.String())
	}
	return string(b)
}
