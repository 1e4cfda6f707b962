package repositories

import (
	"context"
	"fmt"

	"storepos/internal/common"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Activation codes are seeded by migration and only ever consumed inside the
// tenant upgrade transaction, so this file holds tx-scoped helpers rather
// than a standalone repository.

// lockActivationCode locks code for the rest of tx and fails when it is
// unknown or already consumed.
func lockActivationCode(ctx context.Context, tx pgx.Tx, code string) error {
	var used bool
	err := tx.QueryRow(ctx, `SELECT used FROM activation_codes WHERE code = $1 FOR UPDATE`, code).Scan(&used)
	if isNoRows(err) {
		return common.ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("lock activation code: %w", err)
	}
	if used {
		return common.ErrCodeAlreadyUsed
	}
	return nil
}

// consumeActivationCode marks a locked code as used by tenantID. The used =
// FALSE guard keeps a consumed code immutable.
func consumeActivationCode(ctx context.Context, tx pgx.Tx, code string, tenantID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `UPDATE activation_codes SET used = TRUE, used_by = $1, used_at = NOW() WHERE code = $2 AND used = FALSE`, tenantID, code)
	if err != nil {
		return fmt.Errorf("consume activation code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrCodeAlreadyUsed
	}
	return nil
}
