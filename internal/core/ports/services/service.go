package services

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// ProducerMutation is the caller-supplied mutation of a source document,
// executed by the posting coordinator inside the posting transaction after
// the journal entry has been written. entryID is the committed-to-be entry
// the document should reference. Returning an error rolls back the entire
// posting, entry included.
type ProducerMutation func(ctx context.Context, tx pgx.Tx, entryID string) error
