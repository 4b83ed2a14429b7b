package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections(t *testing.T) {
	defs := Collections()
	require.Len(t, defs, 3)

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
		assert.NotEmpty(t, def.Indexes, def.Name)
		assert.Contains(t, def.Validator, "$jsonSchema", def.Name)
	}
	assert.ElementsMatch(t, []string{EventsCollection, ReservationsCollection, UsersCollection}, names)
}

func TestActiveReservationIndex(t *testing.T) {
	idx := ReservationsIndexes[0]
	require.NotNil(t, idx.Options)

	assert.Equal(t, bson.D{{Key: "user_id", Value: 1}, {Key: "event_id", Value: 1}}, idx.Keys)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
	require.NotNil(t, idx.Options.Name)
	assert.Equal(t, ActiveReservationIndex, *idx.Options.Name)
	assert.Equal(t, bson.M{"active": true}, idx.Options.PartialFilterExpression)
}

func TestUniqueEmailIndex(t *testing.T) {
	idx := UsersIndexes[0]
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
}
