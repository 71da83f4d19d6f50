package turnlog

import (
	"database/sql"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
)

// Migrations creates the assistant_turns table. The owning module runs
// them through plugin.Store.Migrate before calling New.
func Migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create assistant turns table",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS assistant_turns (
						id           INTEGER PRIMARY KEY AUTOINCREMENT,
						timestamp    TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
						session_id   TEXT    NOT NULL,
						user_message TEXT    NOT NULL DEFAULT '',
						action       TEXT    NOT NULL DEFAULT '',
						outcome      TEXT    NOT NULL,
						duration_ms  INTEGER NOT NULL DEFAULT 0,
						error        TEXT    NOT NULL DEFAULT ''
					)`,
					`CREATE INDEX IF NOT EXISTS idx_assistant_turns_timestamp ON assistant_turns(timestamp)`,
					`CREATE INDEX IF NOT EXISTS idx_assistant_turns_action ON assistant_turns(action)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
