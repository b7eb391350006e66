package model

import "time"

// RegistrySnapshot 每個 storage key 一筆文件，payload 為整份 snapshot JSON
type RegistrySnapshot struct {
	Key       string    `json:"key" bson:"_id"`             // snapshot key（userDataStorage）
	Payload   string    `json:"payload" bson:"payload"`     // snapshot JSON 原文
	Bytes     int       `json:"bytes" bson:"bytes"`         // payload 長度
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"` // 第一次寫入時間
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"` // 最後寫入時間
}
