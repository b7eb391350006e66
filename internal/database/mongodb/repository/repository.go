package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// RegistrySnapshotRepository 只在 STORAGE__DRIVER=mongo 時由 database.NewSnapshotPersister 建立

// snapshotUpsert 組出覆寫 snapshot 的 update：payload 每次覆蓋，createdAt 只在第一次寫入
func snapshotUpsert(data []byte, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"payload": string(data),
			"bytes":   len(data),
		},
		"$setOnInsert": bson.M{"createdAt": now.UTC()},
		"$currentDate": bson.M{"updatedAt": true},
	}
}
