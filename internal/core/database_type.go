package core

// ─── Storage Drivers ───────────────────────────────────────────────────────────

// StorageDriver 決定 registry snapshot 的持久層
type StorageDriver string

const (
	StorageFile   StorageDriver = "file"
	StorageMemory StorageDriver = "memory"
	StorageMySQL  StorageDriver = "mysql"
	StorageMongo  StorageDriver = "mongo"
	StorageRedis  StorageDriver = "redis"
)

// StorageDrivers contains all supported snapshot backends
var StorageDrivers = []StorageDriver{StorageFile, StorageMemory, StorageMySQL, StorageMongo, StorageRedis}

type MongoDatabaseName string
type MongoCollection string
type MySQLTable string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────
const (
	MongoDBScoreboard MongoDatabaseName = "scoreboard"
)

const (
	MongoCollectionRegistrySnapshots MongoCollection = "registry_snapshots"
)

// ─── MySQL ─────────────────────────────────────────────────────────────────────
const (
	MySQLTableKVEntries MySQLTable = "kv_entries"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyServerName  RedisKey = "scoreboard"   // 預設 key prefix
	RedisKeySmsCooldown RedisKey = "sms_cooldown" // 簡訊發送冷卻
)

const (
	FluentdRequest  FluentdSubTag = "request_log"
	FluentdResponse FluentdSubTag = "response_log"
	FluentdAudit    FluentdSubTag = "registry_audit_log"
)
