// File: internal/modules/stamp/stamp_test.go
package stamp

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/conduit/api/schemas"
)

func TestStampAnnotatesPayload(t *testing.T) {
	m := New("stamp", nil)
	require.NoError(t, m.Initialize())

	out, err := m.Process(context.Background(), schemas.Payload{"keep": "me"})
	require.NoError(t, err)

	assert.Equal(t, "me", out["keep"])

	_, err = uuid.Parse(out.String("id"))
	assert.NoError(t, err, "id must be a valid uuid")

	_, err = time.Parse(time.RFC3339, out.String("stamped_at"))
	assert.NoError(t, err, "stamped_at must be RFC3339")
}

func TestStampIDsAreUnique(t *testing.T) {
	m := New("stamp", nil)
	require.NoError(t, m.Initialize())

	first, err := m.Process(context.Background(), schemas.Payload{})
	require.NoError(t, err)
	second, err := m.Process(context.Background(), schemas.Payload{})
	require.NoError(t, err)

	assert.NotEqual(t, first["id"], second["id"])
}
