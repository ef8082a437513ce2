package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Table describes a dedup-keyed postgres table that takes whole-batch
// writes. Key is the unique constraint the merge resolves on; Immutable
// names the columns a matched row keeps, so replaying a document never
// churns row ids that downstream rows reference.
type Table struct {
	Name      string // optionally schema-qualified
	Columns   []string
	Key       []string
	Immutable []string
}

// CopyReplace stages rows with COPY and merges them into the table,
// replacing matched rows in place. Returns the number of rows written.
//
// The whole batch moves in one transaction: a session temp table shaped
// like the target takes the COPY, then a single INSERT ... ON CONFLICT
// carries it across. COPY keeps multi-hundred-line transcript batches off
// the extended query protocol.
func (t Table) CopyReplace(ctx context.Context, pool Pool, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := t.validate(); err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrapf(err, "db: %s: begin", t.Name)
	}
	defer tx.Rollback(ctx)

	stage := t.stageName()
	create := fmt.Sprintf(
		"CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		pgx.Identifier{stage}.Sanitize(), t.ident(),
	)
	if _, err := tx.Exec(ctx, create); err != nil {
		return 0, eris.Wrapf(err, "db: %s: create stage", t.Name)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{stage}, t.Columns, pgx.CopyFromRows(rows)); err != nil {
		return 0, eris.Wrapf(err, "db: %s: copy batch", t.Name)
	}

	tag, err := tx.Exec(ctx, t.mergeSQL(stage))
	if err != nil {
		return 0, eris.Wrapf(err, "db: %s: merge", t.Name)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrapf(err, "db: %s: commit", t.Name)
	}
	return tag.RowsAffected(), nil
}

func (t Table) validate() error {
	switch {
	case t.Name == "":
		return eris.New("db: table name is empty")
	case len(t.Columns) == 0:
		return eris.Errorf("db: %s: no columns", t.Name)
	case len(t.Key) == 0:
		return eris.Errorf("db: %s: no merge key", t.Name)
	}
	return nil
}

// stageName flattens a schema-qualified name into a session-local one.
func (t Table) stageName() string {
	return "stage_" + strings.ReplaceAll(t.Name, ".", "_")
}

// ident quotes the target name, keeping schema qualification intact.
func (t Table) ident() string {
	if schema, rest, ok := strings.Cut(t.Name, "."); ok {
		return pgx.Identifier{schema, rest}.Sanitize()
	}
	return pgx.Identifier{t.Name}.Sanitize()
}

// replaceColumns is every column the merge overwrites on a key match:
// the full column list minus the key and the immutable set.
func (t Table) replaceColumns() []string {
	keep := make(map[string]bool, len(t.Key)+len(t.Immutable))
	for _, c := range t.Key {
		keep[c] = true
	}
	for _, c := range t.Immutable {
		keep[c] = true
	}
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !keep[c] {
			out = append(out, c)
		}
	}
	return out
}

func (t Table) mergeSQL(stage string) string {
	cols := identList(t.Columns)
	repl := t.replaceColumns()
	if len(repl) == 0 {
		// Every column is key or immutable; matches carry nothing new.
		return fmt.Sprintf(
			"INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) DO NOTHING",
			t.ident(), cols, cols, pgx.Identifier{stage}.Sanitize(), identList(t.Key),
		)
	}

	set := make([]string, 0, len(repl))
	for _, c := range repl {
		q := pgx.Identifier{c}.Sanitize()
		set = append(set, q+" = EXCLUDED."+q)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) DO UPDATE SET %s",
		t.ident(), cols, cols, pgx.Identifier{stage}.Sanitize(),
		identList(t.Key), strings.Join(set, ", "),
	)
}

func identList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
