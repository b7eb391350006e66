package model

import (
	"time"

	"scoreboard/internal/core"
)

// KVEntry 為 key-value 表的一列，registry snapshot 存在 key=userDataStorage
type KVEntry struct {
	Key       string    `gorm:"column:key;type:varchar(191);primaryKey" json:"key"`
	Value     []byte    `gorm:"column:value;type:longblob;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (KVEntry) TableName() string {
	return string(core.MySQLTableKVEntries)
}
