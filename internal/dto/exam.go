package dto

import "encoding/json"

type ListExamsQuery struct {
	StudentID string `form:"studentId" binding:"required"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	// 有帶時，第一頁結果會寫入該 record 的 examData
	RecordKey string `form:"recordKey"`
}

type ExamPageResponseDto struct {
	Page      int               `json:"page"`
	TotalPage int               `json:"totalPage"`
	DataList  []json.RawMessage `json:"dataList"`
}

type ScoresQuery struct {
	AccountID string `form:"accountId" binding:"required"`
}

type QuestionsQuery struct {
	ClassID      string `form:"classId" binding:"required"`
	StudentID    string `form:"studentId" binding:"required"`
	ExamCourseID string `form:"examCourseId" binding:"required"`
}

type HistoryQuery struct {
	StudentID string `form:"studentId" binding:"required"`
	AccountID string `form:"accountId" binding:"required"`
	Subject   string `form:"subject" binding:"required"`
}

// 單科成績
type SubjectScoreDto struct {
	CourseName   string  `json:"courseName"`
	ExamCourseID string  `json:"examCourseId,omitempty"`
	Score        float64 `json:"score"`
	FullScore    float64 `json:"fullScore"`
	Ratio        float64 `json:"ratio"`
	Rank         float64 `json:"rank,omitempty"`
}

// 雷達圖單點；normalizedScore 為得分率（%）
type RadarPointDto struct {
	Subject         string  `json:"subject"`
	Score           float64 `json:"score"`
	FullScore       float64 `json:"fullScore"`
	NormalizedScore float64 `json:"normalizedScore"`
	Ratio           float64 `json:"ratio"`
}

type AnalysisResponseDto struct {
	ExamID   string            `json:"examId"`
	Total    *SubjectScoreDto  `json:"total,omitempty"`
	Subjects []SubjectScoreDto `json:"subjects"`
	Radar    []RadarPointDto   `json:"radar"`
}

type HistoryPointDto struct {
	ExamID string  `json:"examId"`
	Exam   string  `json:"exam"`
	Score  float64 `json:"score"`
	Rank   float64 `json:"rank"`
	Date   string  `json:"date"`
}
