package handler

import (
	"scoreboard/internal/dto"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/pkg/response"
	"scoreboard/internal/service"
	"scoreboard/internal/telemetry"
	"scoreboard/utils/validate"

	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	trace       *telemetry.Trace
	examService *service.ExamService
}

func NewExamHandler(trace *telemetry.Trace, examService *service.ExamService) *ExamHandler {
	return &ExamHandler{trace: trace, examService: examService}
}

// List 考試列表
// @Summary 考試列表（每頁 10 筆）
// @Tags Exam
// @Produce json
// @Param token header string true "平台 token"
// @Param studentId query string true "學生帳號 ID"
// @Param page query int false "頁碼，預設 1"
// @Param recordKey query string false "寫回 examData 的 registry key"
// @Success 200 {object} dto.ExamPageResponseDto
// @Router /api/exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.ListExamsQuery
	if cause, respErr := bindWithToken(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.examService.ListExams(ctx, platformToken(c), &query)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Scores 單場考試成績
// @Summary 單場考試各科成績（上游原文）
// @Tags Exam
// @Produce json
// @Param token header string true "平台 token"
// @Param examID path string true "考試 ID"
// @Param accountId query string true "學生帳號 ID"
// @Success 200 {array} object
// @Router /api/exams/{examID}/scores [get]
func (h *ExamHandler) Scores(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.ScoresQuery
	if cause, respErr := bindWithToken(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.examService.Scores(ctx, platformToken(c), c.Param("examID"), query.AccountID)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Analysis 成績分析
// @Summary 成績分析（雷達圖）
// @Tags Exam
// @Produce json
// @Param token header string true "平台 token"
// @Param examID path string true "考試 ID"
// @Param accountId query string true "學生帳號 ID"
// @Success 200 {object} dto.AnalysisResponseDto
// @Router /api/exams/{examID}/analysis [get]
func (h *ExamHandler) Analysis(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.ScoresQuery
	if cause, respErr := bindWithToken(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.examService.Analysis(ctx, platformToken(c), c.Param("examID"), query.AccountID)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Questions 單科小題得分
// @Summary 單科小題得分（上游原文）
// @Tags Exam
// @Produce json
// @Param token header string true "平台 token"
// @Param examID path string true "考試 ID"
// @Param classId query string true "班級 ID"
// @Param studentId query string true "學生 ID"
// @Param examCourseId query string true "考試科目 ID"
// @Success 200 {object} object
// @Router /api/exams/{examID}/questions [get]
func (h *ExamHandler) Questions(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.QuestionsQuery
	if cause, respErr := bindWithToken(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.examService.Questions(ctx, platformToken(c), &query)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// History 單科歷次成績
// @Summary 單科最近 5 次考試成績與排名
// @Tags Exam
// @Produce json
// @Param token header string true "平台 token"
// @Param studentId query string true "學生帳號 ID"
// @Param accountId query string true "學生帳號 ID"
// @Param subject query string true "科目名稱"
// @Success 200 {array} dto.HistoryPointDto
// @Router /api/exams/history [get]
func (h *ExamHandler) History(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.HistoryQuery
	if cause, respErr := bindWithToken(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.examService.History(ctx, platformToken(c), &query)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// bindWithToken 檢查 token header 並綁定 query
func bindWithToken(c *gin.Context, query any) (cause error, responseErr error) {
	if platformToken(c) == "" {
		err := cErr.InvalidSession("token header is required")
		return err, err
	}
	return validate.BindQuery(c, query)
}
