package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSnapshotUpsert(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.FixedZone("CST", 8*3600))
	update := snapshotUpsert([]byte(`{"users":{}}`), now)

	assert.Equal(t, bson.M{"payload": `{"users":{}}`, "bytes": 12}, update["$set"])
	assert.Equal(t, bson.M{"createdAt": now.UTC()}, update["$setOnInsert"])
	assert.Equal(t, bson.M{"updatedAt": true}, update["$currentDate"])
}
