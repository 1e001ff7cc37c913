package database

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"
)

var notifyTables = []string{"artworks", "exhibitions", "reservations"}

// InstallNotifyTriggers makes postgres emit
// {"table": ..., "op": ..., "id": ...} on channel for every row change,
// including changes made by other clients.
func InstallNotifyTriggers(db *gorm.DB, channel string) error {
	fn := fmt.Sprintf(`
CREATE OR REPLACE FUNCTION gallery_notify_change() RETURNS trigger AS $$
DECLARE
  row_id text;
BEGIN
  IF TG_OP = 'DELETE' THEN
    row_id := OLD.id;
  ELSE
    row_id := NEW.id;
  END IF;
  PERFORM pg_notify(%s, json_build_object(
    'table', TG_TABLE_NAME,
    'op', lower(TG_OP),
    'id', row_id
  )::text);
  RETURN NULL;
END;
$$ LANGUAGE plpgsql;`, quoteLiteral(channel))

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fn).Error; err != nil {
			return fmt.Errorf("create notify function: %w", err)
		}
		for _, t := range notifyTables {
			ident := pgx.Identifier{t}.Sanitize()
			trigger := pgx.Identifier{t + "_notify_change"}.Sanitize()
			if err := tx.Exec(fmt.Sprintf(`DROP TRIGGER IF EXISTS %s ON %s`, trigger, ident)).Error; err != nil {
				return fmt.Errorf("drop trigger on %s: %w", t, err)
			}
			stmt := fmt.Sprintf(
				`CREATE TRIGGER %s AFTER INSERT OR UPDATE OR DELETE ON %s FOR EACH ROW EXECUTE FUNCTION gallery_notify_change()`,
				trigger, ident)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create trigger on %s: %w", t, err)
			}
		}
		return nil
	})
}

func quoteLiteral(s string) string {
	out := []byte{'\''}
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}
