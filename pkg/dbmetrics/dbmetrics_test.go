package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeDB struct {
	DBExecutor
}

func TestGetExecutor(t *testing.T) {
	db := &fakeDB{}
	ctx := context.Background()

	assert.Same(t, db, GetExecutor(ctx, db))
	assert.False(t, IsInTransaction(ctx))

	tx := fakeTx{}
	txCtx := WithTx(ctx, tx)
	assert.Equal(t, tx, GetExecutor(txCtx, db))
	assert.True(t, IsInTransaction(txCtx))
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM appointments"))
	assert.Equal(t, "insert", operation("\n\tINSERT INTO payments"))
	assert.Equal(t, "unknown", operation("   "))
}

var _ DBExecutor = (*sql.DB)(nil)
var _ TxExecutor = (*sql.Tx)(nil)
var _ TxExecutor = (*Tx)(nil)
