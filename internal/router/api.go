package router

import (
	"scoreboard/internal/handler"

	"github.com/gin-gonic/gin"
)

// APIRouter 前端呼叫的聚合端點
type APIRouter struct {
	sessionHandler *handler.SessionHandler
	examHandler    *handler.ExamHandler
}

func NewAPIRouter(
	sessionHandler *handler.SessionHandler,
	examHandler *handler.ExamHandler,
) *APIRouter {
	return &APIRouter{
		sessionHandler: sessionHandler,
		examHandler:    examHandler,
	}
}

func (apiRouter *APIRouter) RegisterRoutes(engine *gin.Engine) {
	session := engine.Group("/api/session")
	{
		session.POST("/sms-code", apiRouter.sessionHandler.SendSmsCode)
		session.POST("/login", apiRouter.sessionHandler.Login)
		session.GET("/profile", apiRouter.sessionHandler.Profile)
	}

	exams := engine.Group("/api/exams")
	{
		exams.GET("", apiRouter.examHandler.List)
		exams.GET("/history", apiRouter.examHandler.History)
		exams.GET("/:examID/scores", apiRouter.examHandler.Scores)
		exams.GET("/:examID/analysis", apiRouter.examHandler.Analysis)
		exams.GET("/:examID/questions", apiRouter.examHandler.Questions)
	}
}
