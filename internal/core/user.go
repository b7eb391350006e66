package core

type Role string

const (
	RoleAdmin Role = "admin" // 管理後台
)

// LoginMode 登入方式
type LoginMode string

const (
	LoginModePassword LoginMode = "password"
	LoginModeSms      LoginMode = "sms"
)

// AccountType 為上游平台的帳號類型：密碼登入 0、簡訊登入 8
type AccountType int

const (
	AccountTypePassword AccountType = 0
	AccountTypeSms      AccountType = 8
)

func (mode LoginMode) AccountType() AccountType {
	if mode == LoginModeSms {
		return AccountTypeSms
	}
	return AccountTypePassword
}

// RegistryView 列表檢視
type RegistryView string

const (
	RegistryViewAll       RegistryView = "all"
	RegistryViewBlacklist RegistryView = "blacklist"
)

// AuditAction 為 registry 稽核紀錄的動作
type AuditAction string

const (
	AuditUpsert      AuditAction = "upsert"
	AuditBlacklist   AuditAction = "blacklist"
	AuditUnblacklist AuditAction = "unblacklist"
	AuditDelete      AuditAction = "delete"
	AuditImport      AuditAction = "import"
	AuditExport      AuditAction = "export"
	AuditClear       AuditAction = "clear"
	AuditBackup      AuditAction = "backup"
)
