package errs

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestStoreError(t *testing.T) {
	t.Parallel()
	require.NoError(t, Store("op", nil))

	err := errors.Wrap(Store("books.select", context.DeadlineExceeded), "borrow")
	require.ErrorIs(t, err, ErrTransientStore)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, ErrNotFound)

	var se *StoreError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "books.select", se.Op)
	require.Equal(t, "borrow: books.select: context deadline exceeded", err.Error())
}
