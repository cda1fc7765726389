// AngelaMos | 2026
// vocabulary.go

package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/genre"
)

// SyncVocabulary checks the configured vocabulary against the one stored in
// genre_labels and appends any new labels. A stored vocabulary that is not a
// prefix of the configured one fails with genre.ErrIncompatibleVocab. The
// table is locked for the duration so concurrent starts cannot interleave.
func SyncVocabulary(ctx context.Context, db *sqlx.DB, vocab *genre.Vocabulary) ([]string, error) {
	var added []string

	err := core.InTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `LOCK TABLE genre_labels IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return core.StoreError("lock genre labels", err)
		}

		stored, err := loadLabels(ctx, tx)
		if err != nil {
			return err
		}

		added, err = vocab.CheckAppendOnly(stored)
		if err != nil {
			return err
		}

		return appendLabels(ctx, tx, len(stored), added)
	})
	if err != nil {
		return nil, fmt.Errorf("sync genre vocabulary: %w", err)
	}

	return added, nil
}
