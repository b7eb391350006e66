package registry

import (
	"bytes"
	"encoding/json"
	"time"
)

// UserRecord 為 registry 中的一筆使用者資料，JSON 欄位名稱與 snapshot 格式一致
type UserRecord struct {
	ID            string            `json:"id"`
	Account       string            `json:"account"`
	PhoneNumber   string            `json:"phoneNumber"`
	Name          string            `json:"name"`
	GradeName     string            `json:"gradeName"`
	SchoolName    string            `json:"schoolName"`
	LoginTime     string            `json:"loginTime"`
	ExamData      []json.RawMessage `json:"examData"`
	IsBlacklisted bool              `json:"isBlacklisted"`

	// profile（皆為選填）
	UserID    string          `json:"userId,omitempty"`
	UserName  string          `json:"userName,omitempty"`
	RealName  string          `json:"realName,omitempty"`
	Email     string          `json:"email,omitempty"`
	Avatar    string          `json:"avatar,omitempty"`
	Gender    string          `json:"gender,omitempty"`
	Birthday  string          `json:"birthday,omitempty"`
	Address   string          `json:"address,omitempty"`
	IDCard    string          `json:"idCard,omitempty"`
	StudentID string          `json:"studentId,omitempty"`
	ClassName string          `json:"className,omitempty"`
	GradeID   string          `json:"gradeId,omitempty"`
	SchoolID  string          `json:"schoolId,omitempty"`
	AreaID    string          `json:"areaId,omitempty"`
	ClazzID   string          `json:"clazzId,omitempty"`
	UserInfo  json.RawMessage `json:"userInfo,omitempty"`
}

// UserPatch 為部分更新；nil 欄位代表「未提供」，不覆寫既有值
type UserPatch struct {
	ID          *string `json:"id,omitempty"`
	Account     *string `json:"account,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Name        *string `json:"name,omitempty"`
	GradeName   *string `json:"gradeName,omitempty"`
	SchoolName  *string `json:"schoolName,omitempty"`

	ExamData []json.RawMessage `json:"examData,omitempty"`

	UserID    *string         `json:"userId,omitempty"`
	UserName  *string         `json:"userName,omitempty"`
	RealName  *string         `json:"realName,omitempty"`
	Email     *string         `json:"email,omitempty"`
	Avatar    *string         `json:"avatar,omitempty"`
	Gender    *string         `json:"gender,omitempty"`
	Birthday  *string         `json:"birthday,omitempty"`
	Address   *string         `json:"address,omitempty"`
	IDCard    *string         `json:"idCard,omitempty"`
	StudentID *string         `json:"studentId,omitempty"`
	ClassName *string         `json:"className,omitempty"`
	GradeID   *string         `json:"gradeId,omitempty"`
	SchoolID  *string         `json:"schoolId,omitempty"`
	AreaID    *string         `json:"areaId,omitempty"`
	ClazzID   *string         `json:"clazzId,omitempty"`
	UserInfo  json.RawMessage `json:"userInfo,omitempty"`
}

// String 回傳指標，方便組 UserPatch
func String(v string) *string {
	return &v
}

// ResolveKey 依序取 id、account、phoneNumber 中第一個非空值
func ResolveKey(id, account, phone string) string {
	switch {
	case id != "":
		return id
	case account != "":
		return account
	default:
		return phone
	}
}

func (p UserPatch) key() string {
	return ResolveKey(deref(p.ID), deref(p.Account), deref(p.PhoneNumber))
}

// Clone 深拷貝 slice / raw 欄位，避免呼叫端改到 store 內部狀態
func (r UserRecord) Clone() UserRecord {
	out := r
	if r.ExamData != nil {
		out.ExamData = make([]json.RawMessage, len(r.ExamData))
		for i, e := range r.ExamData {
			out.ExamData[i] = append(json.RawMessage(nil), e...)
		}
	}
	if r.UserInfo != nil {
		out.UserInfo = append(json.RawMessage(nil), r.UserInfo...)
	}
	return out
}

// compactRaw 去掉 raw JSON 欄位的縮排，讓匯出再匯入的內容一致
func (r *UserRecord) compactRaw() {
	for i, e := range r.ExamData {
		r.ExamData[i] = compactJSON(e)
	}
	if len(r.UserInfo) > 0 {
		r.UserInfo = compactJSON(r.UserInfo)
	}
}

func compactJSON(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return json.RawMessage(buf.Bytes())
}

// newRecord 以 patch 建立新資料，未提供的欄位為空值
func newRecord(key string, p UserPatch, now time.Time) UserRecord {
	r := UserRecord{
		ID:        key,
		ExamData:  []json.RawMessage{},
		LoginTime: FormatTime(now),
	}
	applyPatch(&r, p)
	r.ID = key
	if r.ExamData == nil {
		r.ExamData = []json.RawMessage{}
	}
	return r
}

// mergeInto 淺合併：patch 有給的欄位覆寫既有值；account / phoneNumber 給空字串時保留舊值
func mergeInto(existing *UserRecord, p UserPatch, now time.Time) {
	oldAccount, oldPhone := existing.Account, existing.PhoneNumber
	newAccount, newPhone := deref(p.Account), deref(p.PhoneNumber)

	key := existing.ID
	applyPatch(existing, p)
	existing.ID = key

	existing.PhoneNumber = firstNonEmpty(newPhone, oldPhone)
	existing.Account = firstNonEmpty(newAccount, oldAccount)
	existing.LoginTime = FormatTime(now)
}

// FormatTime 以 ISO-8601（毫秒、UTC）格式輸出
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func applyPatch(r *UserRecord, p UserPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.ID, p.ID)
	set(&r.Account, p.Account)
	set(&r.PhoneNumber, p.PhoneNumber)
	set(&r.Name, p.Name)
	set(&r.GradeName, p.GradeName)
	set(&r.SchoolName, p.SchoolName)
	set(&r.UserID, p.UserID)
	set(&r.UserName, p.UserName)
	set(&r.RealName, p.RealName)
	set(&r.Email, p.Email)
	set(&r.Avatar, p.Avatar)
	set(&r.Gender, p.Gender)
	set(&r.Birthday, p.Birthday)
	set(&r.Address, p.Address)
	set(&r.IDCard, p.IDCard)
	set(&r.StudentID, p.StudentID)
	set(&r.ClassName, p.ClassName)
	set(&r.GradeID, p.GradeID)
	set(&r.SchoolID, p.SchoolID)
	set(&r.AreaID, p.AreaID)
	set(&r.ClazzID, p.ClazzID)
	if p.ExamData != nil {
		r.ExamData = p.ExamData
	}
	if len(p.UserInfo) > 0 {
		r.UserInfo = p.UserInfo
	}
}

// patchFromRecord 把匯入的完整 record 轉為 patch：空字串視為未提供
func patchFromRecord(r UserRecord) UserPatch {
	opt := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}
	return UserPatch{
		ID:          opt(r.ID),
		Account:     opt(r.Account),
		PhoneNumber: opt(r.PhoneNumber),
		Name:        opt(r.Name),
		GradeName:   opt(r.GradeName),
		SchoolName:  opt(r.SchoolName),
		ExamData:    r.ExamData,
		UserID:      opt(r.UserID),
		UserName:    opt(r.UserName),
		RealName:    opt(r.RealName),
		Email:       opt(r.Email),
		Avatar:      opt(r.Avatar),
		Gender:      opt(r.Gender),
		Birthday:    opt(r.Birthday),
		Address:     opt(r.Address),
		IDCard:      opt(r.IDCard),
		StudentID:   opt(r.StudentID),
		ClassName:   opt(r.ClassName),
		GradeID:     opt(r.GradeID),
		SchoolID:    opt(r.SchoolID),
		AreaID:      opt(r.AreaID),
		ClazzID:     opt(r.ClazzID),
		UserInfo:    r.UserInfo,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
