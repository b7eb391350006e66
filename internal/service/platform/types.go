package platform

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Envelope 為上游統一回應格式；code==200 且 success 才算成功
type Envelope struct {
	Code    int             `json:"code"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e Envelope) OK() bool {
	return e.Code == 200 && e.Success
}

// FlexString 上游同一欄位有時給字串、有時給數字，一律轉成字串
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		*f = FlexString(b)
	}
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexFloat 接受數字、數字字串或 null
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// ---- Login ----

type LoginParams struct {
	Account     string
	Secret      string // 密碼或簡訊驗證碼（明文，送出前加密）
	AccountType int
}

type loginBody struct {
	App         string `json:"app"`
	Password    string `json:"password"`
	AccountType int    `json:"accountType"`
	Client      string `json:"client"`
	Account     string `json:"account"`
	Platform    string `json:"platform"`
}

// LoginResult 為登入成功的 data；Raw 保留完整內容
type LoginResult struct {
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken"`
	ID           FlexString `json:"id"`
	UserID       FlexString `json:"userId"`
	UserName     FlexString `json:"userName"`
	RealName     FlexString `json:"realName"`
	Email        FlexString `json:"email"`
	Avatar       FlexString `json:"avatar"`
	Gender       FlexString `json:"gender"`
	Birthday     FlexString `json:"birthday"`
	Address      FlexString `json:"address"`
	IDNumber     FlexString `json:"idnumber"`
	IDCard       FlexString `json:"idCard"`
	SxwNumber    FlexString `json:"sxwnumber"`

	Raw json.RawMessage `json:"-"`
}

// ---- User info ----

type UserSimple struct {
	ID          FlexString `json:"id"`
	Account     FlexString `json:"account"`
	PhoneNumber FlexString `json:"phoneNumber"`
	Name        FlexString `json:"name"`
	UserName    FlexString `json:"userName"`
	RealName    FlexString `json:"realName"`
	Email       FlexString `json:"email"`
	Avatar      FlexString `json:"avatar"`
	Gender      FlexString `json:"gender"`
	Birthday    FlexString `json:"birthday"`
	Address     FlexString `json:"address"`
	IDNumber    FlexString `json:"idnumber"`
	IDCard      FlexString `json:"idCard"`
	SxwNumber   FlexString `json:"sxwnumber"`
}

type Area struct {
	ID   FlexString `json:"id"`
	Name FlexString `json:"name"`
}

type Clazz struct {
	ID        FlexString `json:"id"`
	Name      FlexString `json:"name"`
	ClassName FlexString `json:"className"`
}

type Grade struct {
	ID         FlexString `json:"id"`
	GradeID    FlexString `json:"gradeId"`
	GradeName  FlexString `json:"gradeName"`
	PeriodName FlexString `json:"periodName"`
}

// UserInfo 為 get_user_info 的 data；*Raw 為各區塊原文（可能為 nil）
type UserInfo struct {
	User  UserSimple
	Area  Area
	Clazz Clazz
	Grade Grade

	UserRaw  json.RawMessage
	AreaRaw  json.RawMessage
	ClazzRaw json.RawMessage
	GradeRaw json.RawMessage
}

func (u *UserInfo) UnmarshalJSON(b []byte) error {
	var wire struct {
		UserSimpleDTO   json.RawMessage `json:"userSimpleDTO"`
		AreaDTO         json.RawMessage `json:"areaDTO"`
		ClassComplexDTO *struct {
			ClassSimpleDTO  json.RawMessage `json:"classSimpleDTO"`
			GradeComplexDTO json.RawMessage `json:"gradeComplexDTO"`
		} `json:"classComplexDTO"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	u.UserRaw = nonNull(wire.UserSimpleDTO)
	u.AreaRaw = nonNull(wire.AreaDTO)
	if wire.ClassComplexDTO != nil {
		u.ClazzRaw = nonNull(wire.ClassComplexDTO.ClassSimpleDTO)
		u.GradeRaw = nonNull(wire.ClassComplexDTO.GradeComplexDTO)
	}
	if err := decodeOptional(u.UserRaw, &u.User); err != nil {
		return err
	}
	if err := decodeOptional(u.AreaRaw, &u.Area); err != nil {
		return err
	}
	if err := decodeOptional(u.ClazzRaw, &u.Clazz); err != nil {
		return err
	}
	return decodeOptional(u.GradeRaw, &u.Grade)
}

// Bundle 組成 {user, area, clazz, grade}，存入 record 的 userInfo
func (u UserInfo) Bundle() json.RawMessage {
	raw := func(r json.RawMessage) json.RawMessage {
		if len(r) == 0 {
			return json.RawMessage("null")
		}
		return r
	}
	b, _ := json.Marshal(map[string]json.RawMessage{
		"user":  raw(u.UserRaw),
		"area":  raw(u.AreaRaw),
		"clazz": raw(u.ClazzRaw),
		"grade": raw(u.GradeRaw),
	})
	return b
}

// ---- Exams ----

type examPageBody struct {
	IsLoading bool          `json:"isLoading"`
	Body      examPageInner `json:"body"`
}

type examPageInner struct {
	PageableDto      pageable `json:"pageableDto"`
	IsObjective      bool     `json:"isObjective"`
	SemesterID       string   `json:"semesterId"`
	StudentAccountID string   `json:"studentAccountId"`
	NotNeedNceExam   bool     `json:"notNeedNceExam"`
}

type pageable struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// ExamPage 為考試分頁；DataList 保留上游原文
type ExamPage struct {
	DataList  []json.RawMessage `json:"dataList"`
	TotalPage int               `json:"totalPage"`
}

// Exam 為 DataList 單筆中用得到的欄位
type Exam struct {
	ID        FlexString `json:"id"`
	Name      FlexString `json:"name"`
	GradeName FlexString `json:"gradeName"`
	StartTime FlexString `json:"startTime"`
	State     FlexString `json:"state"`
}

// ParseExams 解析 DataList；無法解析的項目略過
func ParseExams(list []json.RawMessage) []Exam {
	out := make([]Exam, 0, len(list))
	for _, raw := range list {
		var e Exam
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out
}

type scoreListBody struct {
	IsLoading bool   `json:"isLoading"`
	ExamID    string `json:"examId"`
	AccountID string `json:"accountId"`
}

// Score 為單科成績
type Score struct {
	CourseName      string     `json:"courseName"`
	ExamCourseID    FlexString `json:"examCourseId"`
	GainScore       FlexFloat  `json:"gainScore"`
	NceGainScore    FlexFloat  `json:"nceGainScore"`
	NeedAssignScore bool       `json:"needAssignScore"`
	FullScore       FlexFloat  `json:"fullScore"`
	Ratio           FlexFloat  `json:"ratio"`
	CityRank        FlexFloat  `json:"cityRank"`
	Rank            FlexFloat  `json:"rank"`
}

// EffectiveScore 賦分科目取 nceGainScore，否則取 gainScore
func (s Score) EffectiveScore() float64 {
	if s.NeedAssignScore {
		return float64(s.NceGainScore)
	}
	return float64(s.GainScore)
}

// ParseScores 解析 findScoreList 的 data
func ParseScores(raw json.RawMessage) ([]Score, error) {
	if len(nonNull(raw)) == 0 {
		return []Score{}, nil
	}
	var scores []Score
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

type studentQuestionBody struct {
	IsLoading         bool   `json:"isLoading"`
	ClassID           string `json:"classId"`
	StudentID         string `json:"studentId"`
	ExamCourseID      string `json:"examCourseId"`
	CourseChooseTrend int    `json:"courseChooseTrend"`
}

func nonNull(raw json.RawMessage) json.RawMessage {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return nil
	}
	return t
}

func decodeOptional(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
