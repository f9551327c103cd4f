package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("clubs").
		Where(Eq("country_code", "DK"), In("id", []any{1, 2})).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM clubs WHERE country_code = $1 AND id IN ($2, $3) ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "DK" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("external_id", "full_name").
		Values("8198", "Cristiano Ronaldo").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (external_id, full_name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "8198" || args[1] != "Cristiano Ronaldo" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("clubs").
		SetExpr("crest_url", "COALESCE(?, crest_url)", "https://img/c.png").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", 7)).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE clubs SET crest_url = COALESCE($1, crest_url), updated_at = NOW() WHERE id = $2 RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "https://img/c.png" || args[1] != 7 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_RequiresSets(t *testing.T) {
	if _, _, err := Update("clubs").Where(Eq("id", 7)).ToSQL(); err == nil {
		t.Fatalf("expected error for update without sets")
	}
}

func TestSelectBuilder_OrderByExprBindsAfterWhere(t *testing.T) {
	query, args, err := Select("id").
		From("clubs").
		Where(ILike("name", ContainsPattern("fc"))).
		OrderByExpr("CASE WHEN lower(name) = lower(?) THEN 0 ELSE 1 END", "fc").
		OrderBy("name").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := `SELECT id FROM clubs WHERE name ILIKE $1 ESCAPE '\' ORDER BY CASE WHEN lower(name) = lower($2) THEN 0 ELSE 1 END, name`
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "%fc%" || args[1] != "fc" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_OrILike(t *testing.T) {
	pattern := ContainsPattern("copen")
	query, args, err := Select("id").
		From("clubs").
		Where(Or(ILike("name", pattern), ILike("official_name", pattern))).
		Limit(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := `SELECT id FROM clubs WHERE (name ILIKE $1 ESCAPE '\' OR official_name ILIKE $2 ESCAPE '\') LIMIT 20`
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "%copen%" || args[1] != "%copen%" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	if got := ContainsPattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Fatalf("unexpected pattern: %s", got)
	}
	if got := PrefixPattern("FC_"); got != `FC\_%` {
		t.Fatalf("unexpected prefix pattern: %s", got)
	}
}

func TestInsertModel_UsesDBTags(t *testing.T) {
	type row struct {
		ExternalID string `db:"external_id"`
		Label      string `db:"label"`
		ignored    string
		Skip       string `db:"-"`
	}

	query, args, err := InsertModel("seasons", row{ExternalID: "2019", Label: "19/20"}, "ON CONFLICT (label) DO UPDATE SET external_id = EXCLUDED.external_id RETURNING id")
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}

	wantQuery := "INSERT INTO seasons (external_id, label) VALUES ($1, $2) ON CONFLICT (label) DO UPDATE SET external_id = EXCLUDED.external_id RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "2019" || args[1] != "19/20" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_SkipsUntaggedAndReadonly(t *testing.T) {
	type row struct {
		ID         int64   `db:"id,readonly"`
		ExternalID *string `db:"external_id"`
		FullName   string  `db:"full_name"`
		Ignored    string  `db:"-"`
		NoTag      string
		internal   string `db:"internal"`
	}
	externalID := "8198"

	query, args, err := InsertModel("players", row{ID: 9, ExternalID: &externalID, FullName: "Mikael Uhre", internal: "x"}, "RETURNING id")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}

	wantQuery := "INSERT INTO players (external_id, full_name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[1] != "Mikael Uhre" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	if _, _, err := InsertModel("players", 42, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	var nilModel *struct{}
	if _, _, err := InsertModel("players", nilModel, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
