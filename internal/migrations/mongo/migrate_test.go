package mongo

import (
	"testing"

	mongodb "studiodesk/pkg/db/mongo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollections_CoverEveryRepository(t *testing.T) {
	defs := Collections()

	for _, name := range []string{
		mongodb.CollectionReservations,
		mongodb.CollectionReservationLocks,
		mongodb.CollectionMembers,
		mongodb.CollectionLedgerEntries,
		mongodb.CollectionProfessionals,
		mongodb.CollectionUsers,
		mongodb.CollectionNotifications,
		mongodb.CollectionNotificationReceipts,
	} {
		def, ok := defs[name]
		require.True(t, ok, name)
		assert.Contains(t, def.Validator, "$jsonSchema", name)
	}
}

func TestReservationLocks_ExpireByTTL(t *testing.T) {
	require.Len(t, ReservationLocksIndexes, 1)
	opts := ReservationLocksIndexes[0].Options
	require.NotNil(t, opts)
	require.NotNil(t, opts.ExpireAfterSeconds)
	assert.EqualValues(t, 0, *opts.ExpireAfterSeconds)
}
