package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	t.Run("select with range conditions", func(t *testing.T) {
		sql, args, err := Select("id", "home_team", "away_team").
			From("matches").
			Where(
				Eq("sport", "football"),
				Gte("event_date", "2025-01-01"),
				Lte("event_date", "2025-01-03"),
			).
			OrderBy("event_date DESC").
			Limit(20).
			ToSQL()
		if err != nil {
			t.Fatalf("build select: %v", err)
		}

		want := "SELECT id, home_team, away_team FROM matches WHERE sport = $1 AND event_date >= $2 AND event_date <= $3 ORDER BY event_date DESC LIMIT 20"
		if sql != want {
			t.Fatalf("unexpected sql:\ngot=%s\nwant=%s", sql, want)
		}
		if len(args) != 3 {
			t.Fatalf("unexpected arg count: got=%d want=3", len(args))
		}
	})

	t.Run("empty in clause yields no rows", func(t *testing.T) {
		sql, _, err := Select("id").From("ratings").Where(In("player_id", nil)).ToSQL()
		if err != nil {
			t.Fatalf("build select: %v", err)
		}
		want := "SELECT id FROM ratings WHERE 1=0"
		if sql != want {
			t.Fatalf("unexpected sql: got=%s want=%s", sql, want)
		}
	})

	t.Run("missing table fails", func(t *testing.T) {
		if _, _, err := Select("id").ToSQL(); err == nil {
			t.Fatalf("expected error for missing table")
		}
	})
}

func TestInsertBuilder(t *testing.T) {
	sql, args, err := InsertInto("matches").
		Columns("public_id", "sport", "home_team").
		Values("m-1", "football", "PSG").
		Suffix("ON CONFLICT (sport, external_id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	want := "INSERT INTO matches (public_id, sport, home_team) VALUES ($1, $2, $3) ON CONFLICT (sport, external_id) DO NOTHING"
	if sql != want {
		t.Fatalf("unexpected sql:\ngot=%s\nwant=%s", sql, want)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected arg count: got=%d want=3", len(args))
	}
}

func TestUpdateBuilder(t *testing.T) {
	sql, args, err := Update("matches").
		SetExpr("total_ratings", "total_ratings + ?", 1).
		Set("avg_rating", 7.5).
		Where(Eq("id", int64(9))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	want := "UPDATE matches SET total_ratings = total_ratings + $1, avg_rating = $2 WHERE id = $3"
	if sql != want {
		t.Fatalf("unexpected sql:\ngot=%s\nwant=%s", sql, want)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected arg count: got=%d want=3", len(args))
	}
}

func TestDeleteBuilder(t *testing.T) {
	sql, args, err := DeleteFrom("favorites").
		Where(Eq("user_id", "u1"), Eq("entity_kind", "player"), Eq("entity_id", int64(4))).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}

	want := "DELETE FROM favorites WHERE user_id = $1 AND entity_kind = $2 AND entity_id = $3"
	if sql != want {
		t.Fatalf("unexpected sql:\ngot=%s\nwant=%s", sql, want)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected arg count: got=%d want=3", len(args))
	}

	if _, _, err := DeleteFrom("favorites").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditional delete")
	}
}
