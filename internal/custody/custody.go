package custody

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fundpool-labs/fundpool-ledger/internal/db"
	"github.com/fundpool-labs/fundpool-ledger/internal/ledger"
)

// MongoCustody backs the engine's custody collaborator with the custody
// balance document. Release uses a conditional decrement, so the balance
// can never go negative even under operator interference.
type MongoCustody struct {
	db db.DbInterface
}

var _ ledger.Custody = (*MongoCustody)(nil)

func New(db db.DbInterface) *MongoCustody {
	return &MongoCustody{db: db}
}

func (c *MongoCustody) Available(ctx context.Context) (uint64, error) {
	return c.db.GetCustodyBalance(ctx)
}

func (c *MongoCustody) Release(ctx context.Context, participant string, amount uint64) error {
	if err := c.db.ReleaseCustody(ctx, amount); err != nil {
		if db.IsInsufficientCustodyError(err) {
			return ledger.ErrInsufficientCustody
		}
		return err
	}

	log.Ctx(ctx).Info().
		Str("participant", participant).
		Uint64("amount", amount).
		Msg("released custody funds")
	return nil
}

// Fund credits the custody balance, e.g. when profits are deposited by the
// operator before distribution.
func (c *MongoCustody) Fund(ctx context.Context, amount uint64) error {
	return c.db.FundCustody(ctx, amount)
}
