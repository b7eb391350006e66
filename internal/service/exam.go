package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"

	"scoreboard/internal/dto"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/registry"
	"scoreboard/internal/service/platform"
	"scoreboard/internal/telemetry"

	"go.uber.org/zap"
)

const (
	totalCourseName = "总分"
	historyExams    = 5
	defaultFull     = 100
	majorFull       = 150
)

// 语数外满分 150
var majorCourses = map[string]struct{}{
	"语文": {},
	"数学": {},
	"英语": {},
}

type ExamService struct {
	trace    *telemetry.Trace
	logger   *zap.Logger
	platform platform.Client
	store    *registry.Store
}

func NewExamService(trace *telemetry.Trace, logger *zap.Logger, platformClient platform.Client, store *registry.Store) *ExamService {
	return &ExamService{
		trace:    trace,
		logger:   logger.Named("exam"),
		platform: platformClient,
		store:    store,
	}
}

// ListExams 考試分頁；第一頁且帶 recordKey 時寫回該使用者的 examData
func (s *ExamService) ListExams(ctx context.Context, token string, query *dto.ListExamsQuery) (resp *dto.ExamPageResponseDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	page := query.Page
	if page < 1 {
		page = 1
	}
	result, err := s.platform.ListExams(ctx, token, query.StudentID, page, platform.ExamPageSize)
	if err != nil {
		return nil, err
	}
	if page == 1 && query.RecordKey != "" {
		if !s.store.SaveExamData(ctx, query.RecordKey, result.DataList) {
			s.logger.Debug("exam data not saved: record not found", zap.String("recordKey", query.RecordKey))
		}
	}
	return &dto.ExamPageResponseDto{
		Page:      page,
		TotalPage: result.TotalPage,
		DataList:  result.DataList,
	}, nil
}

// Scores 回傳上游原始的成績列表
func (s *ExamService) Scores(ctx context.Context, token, examID, accountID string) (json.RawMessage, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	return s.platform.FindScoreList(ctx, token, examID, accountID)
}

func (s *ExamService) Questions(ctx context.Context, token string, query *dto.QuestionsQuery) (json.RawMessage, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	return s.platform.FindStudentQuestion(ctx, token, query.ClassID, query.StudentID, query.ExamCourseID)
}

// Analysis 各科成績與雷達圖資料（排除总分）
func (s *ExamService) Analysis(ctx context.Context, token, examID, accountID string) (resp *dto.AnalysisResponseDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	raw, err := s.platform.FindScoreList(ctx, token, examID, accountID)
	if err != nil {
		return nil, err
	}
	scores, err := platform.ParseScores(raw)
	if err != nil {
		return nil, cErr.ExternalResponseFormatError("score list is not an array")
	}

	resp = &dto.AnalysisResponseDto{
		ExamID:   examID,
		Subjects: make([]dto.SubjectScoreDto, 0, len(scores)),
		Radar:    make([]dto.RadarPointDto, 0, len(scores)),
	}
	for _, score := range scores {
		subject := subjectScore(score)
		if score.CourseName == totalCourseName {
			total := subject
			resp.Total = &total
			continue
		}
		resp.Subjects = append(resp.Subjects, subject)
		resp.Radar = append(resp.Radar, radarPoint(score))
	}
	return resp, nil
}

// History 最近 5 次考試中指定科目的分數與排名，依日期由舊到新
func (s *ExamService) History(ctx context.Context, token string, query *dto.HistoryQuery) (resp []dto.HistoryPointDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	page, err := s.platform.ListExams(ctx, token, query.StudentID, 1, platform.ExamPageSize)
	if err != nil {
		return nil, err
	}
	exams := platform.ParseExams(page.DataList)
	if len(exams) > historyExams {
		exams = exams[:historyExams]
	}

	resp = make([]dto.HistoryPointDto, 0, len(exams))
	for _, exam := range exams {
		raw, err := s.platform.FindScoreList(ctx, token, exam.ID.String(), query.AccountID)
		if err != nil {
			// 單場失敗略過
			s.logger.Warn("history: score list failed", zap.String("examId", exam.ID.String()), zap.Error(err))
			continue
		}
		scores, err := platform.ParseScores(raw)
		if err != nil {
			continue
		}
		for _, score := range scores {
			if score.CourseName != query.Subject {
				continue
			}
			resp = append(resp, dto.HistoryPointDto{
				ExamID: exam.ID.String(),
				Exam:   exam.Name.String(),
				Score:  score.EffectiveScore(),
				Rank:   effectiveRank(score),
				Date:   exam.StartTime.String(),
			})
			break
		}
	}
	sort.SliceStable(resp, func(i, j int) bool {
		return examTime(resp[i].Date).Before(examTime(resp[j].Date))
	})
	return resp, nil
}

func subjectScore(score platform.Score) dto.SubjectScoreDto {
	return dto.SubjectScoreDto{
		CourseName:   score.CourseName,
		ExamCourseID: score.ExamCourseID.String(),
		Score:        score.EffectiveScore(),
		FullScore:    float64(score.FullScore),
		Ratio:        round1(float64(score.Ratio) * 100),
		Rank:         effectiveRank(score),
	}
}

func radarPoint(score platform.Score) dto.RadarPointDto {
	full := fullScoreOf(score)
	value := score.EffectiveScore()
	return dto.RadarPointDto{
		Subject:         score.CourseName,
		Score:           value,
		FullScore:       full,
		NormalizedScore: round1(value / full * 100),
		Ratio:           round1(float64(score.Ratio) * 100),
	}
}

func fullScoreOf(score platform.Score) float64 {
	if _, ok := majorCourses[score.CourseName]; ok {
		return majorFull
	}
	if score.FullScore > 0 {
		return float64(score.FullScore)
	}
	return defaultFull
}

// 市排名優先，沒有時用校排名，兩者皆無為 0
func effectiveRank(score platform.Score) float64 {
	if score.CityRank != 0 {
		return float64(score.CityRank)
	}
	return float64(score.Rank)
}

func round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}

var examTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// examTime 解析 startTime（字串或毫秒 timestamp）；無法解析時為零值，排在最前
func examTime(v string) time.Time {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms)
	}
	for _, layout := range examTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
