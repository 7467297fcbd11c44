package escrowdtest

import (
	"testing"

	"github.com/iov-one/escrowd/errors"
	"github.com/stretchr/testify/require"
)

// RequireFieldError fails the test unless err holds exactly one error for
// field and it matches want. A nil want requires no error for field.
func RequireFieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()
	found := errors.FieldErrors(err, field)
	if want == nil {
		require.Empty(t, found, "field %s", field)
		return
	}
	require.Len(t, found, 1, "field %s in %+v", field, err)
	require.True(t, want.Is(found[0]), "field %s: want %s, got %+v", field, want, found[0])
}
