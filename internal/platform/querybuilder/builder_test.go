package querybuilder

import (
	"strings"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("key", "value").
		From("kv_entries").
		Where(Eq("key", "picks:user_a:2026-03-19")).
		OrderBy("key").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT key, value FROM kv_entries WHERE key = $1 ORDER BY key LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "picks:user_a:2026-03-19" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_PrefixEscapesWildcards(t *testing.T) {
	query, args, err := Select("key").
		From("kv_entries").
		Where(HasPrefix("key", "picks:user_a_b%"), HasSuffix("key", ":2026-03-19")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := `SELECT key FROM kv_entries WHERE key LIKE $1 ESCAPE '\' AND key LIKE $2 ESCAPE '\'`
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != `picks:user\_a\_b\%%` || args[1] != "%:2026-03-19" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpsertModel(t *testing.T) {
	type row struct {
		Key       string `db:"key"`
		Value     string `db:"value"`
		UpdatedAt string `db:"updated_at,omitempty"`
		private   string
		Skipped   string `db:"-"`
	}

	query, args, err := UpsertModel("kv_entries", &row{Key: "users:u1", Value: "{}", UpdatedAt: "now"}, "key")
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}

	wantQuery := "INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, $3) " +
		"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "users:u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpsertModel_Rejections(t *testing.T) {
	type noColumns struct{ Name string }
	type keyOnly struct {
		Key string `db:"key"`
	}

	if _, _, err := UpsertModel("kv_entries", keyOnly{Key: "k"}); err == nil {
		t.Fatalf("expected error without conflict columns")
	}
	if _, _, err := UpsertModel("kv_entries", noColumns{Name: "x"}, "key"); err == nil {
		t.Fatalf("expected error for model without db columns")
	}
	var nilRow *keyOnly
	if _, _, err := UpsertModel("kv_entries", nilRow, "key"); err == nil {
		t.Fatalf("expected error for nil model")
	}

	query, _, err := UpsertModel("kv_entries", keyOnly{Key: "k"}, "key")
	if err != nil {
		t.Fatalf("build key-only upsert: %v", err)
	}
	if !strings.HasSuffix(query, "ON CONFLICT (key) DO NOTHING") {
		t.Fatalf("key-only upsert must do nothing on conflict, got %s", query)
	}
}

func TestSelectBuilder_EqLiteralQuotes(t *testing.T) {
	query, args, err := Select("value").From("kv_entries").Where(EqLiteral("key", "users:o'hara")).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT value FROM kv_entries WHERE key = 'users:o''hara'" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("literal condition must not bind args: %+v", args)
	}
}
