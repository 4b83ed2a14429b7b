package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassthroughTransactionManager(t *testing.T) {
	tm := NewPassthroughTransactionManager()
	ctx := context.WithValue(context.Background(), struct{}{}, "marker")

	var seen context.Context
	err := tm.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		seen = txCtx
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, ctx, seen)
	assert.False(t, InTransaction(seen))

	boom := errors.New("boom")
	err = tm.ExecuteTransaction(ctx, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}
