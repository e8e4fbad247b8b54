package respondent

import (
	"net/http"
	"strconv"

	"github.com/MartellOnell/testwork/internal/controller"
	"github.com/MartellOnell/testwork/internal/dto"
	"github.com/MartellOnell/testwork/internal/middleware"
	"github.com/MartellOnell/testwork/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type RespondentSurveyController struct {
	surveyService   service.SurveyService
	progressService service.ProgressService
	answerService   service.AnswerService
}

func NewRespondentSurveyController(
	surveyService service.SurveyService,
	progressService service.ProgressService,
	answerService service.AnswerService,
) *RespondentSurveyController {
	return &RespondentSurveyController{
		surveyService:   surveyService,
		progressService: progressService,
		answerService:   answerService,
	}
}

func (c *RespondentSurveyController) parseSurveyID(ctx *gin.Context) (uint, bool) {
	surveyID, err := strconv.ParseUint(ctx.Param("survey_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Survey ID format"})
		return 0, false
	}
	return uint(surveyID), true
}

// ListSurveys godoc
// @Summary List surveys
// @Description Authors see their own surveys; respondents see all active surveys.
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SurveySummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /surveys [get]
func (c *RespondentSurveyController) ListSurveys(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing identity"})
		return
	}

	surveys, err := c.surveyService.ListSurveys(actor)
	if err != nil {
		log.Error().Err(err).Uint("userID", actor.ID).Msg("ListSurveys: service error")
		controller.WriteError(ctx, err, "Failed to retrieve surveys")
		return
	}
	ctx.JSON(http.StatusOK, surveys)
}

// GetSurveyDetails godoc
// @Summary Get survey details
// @Description Full survey with its ordered questions and answer options.
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param survey_id path int true "Survey ID"
// @Success 200 {object} dto.SurveyDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Survey ID format"
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Router /surveys/{survey_id} [get]
func (c *RespondentSurveyController) GetSurveyDetails(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing identity"})
		return
	}
	surveyID, ok := c.parseSurveyID(ctx)
	if !ok {
		return
	}

	details, err := c.surveyService.GetSurveyDetails(actor, surveyID)
	if err != nil {
		log.Warn().Err(err).Uint("surveyID", surveyID).Msg("GetSurveyDetails: service error")
		controller.WriteError(ctx, err, "Failed to retrieve survey")
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// NextQuestion godoc
// @Summary Get the next unanswered question
// @Description Resolves the lowest-order unanswered question for the caller's session, creating the session on first contact. Question is null once the survey is completed.
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param survey_id path int true "Survey ID"
// @Success 200 {object} dto.NextQuestionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Survey ID format"
// @Failure 404 {object} dto.ErrorResponse "Survey not found or inactive"
// @Router /surveys/{survey_id}/next-question [get]
func (c *RespondentSurveyController) NextQuestion(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing identity"})
		return
	}
	surveyID, ok := c.parseSurveyID(ctx)
	if !ok {
		return
	}

	next, err := c.progressService.NextQuestion(actor, surveyID)
	if err != nil {
		log.Warn().Err(err).Uint("surveyID", surveyID).Uint("userID", actor.ID).Msg("NextQuestion: service error")
		controller.WriteError(ctx, err, "Failed to resolve next question")
		return
	}
	ctx.JSON(http.StatusOK, next)
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Records one answer for the caller's session. Resubmitting the same question replaces the prior selection. Completing the last question closes the session.
// @Tags Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param survey_id path int true "Survey ID"
// @Param answer_data body dto.SubmitAnswerDTO true "Question and selected answer option"
// @Success 201 {object} dto.UserAnswerDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or option/question parent mismatch"
// @Failure 404 {object} dto.ErrorResponse "Survey not found or inactive"
// @Failure 409 {object} dto.ErrorResponse "Storage conflict"
// @Router /surveys/{survey_id}/submit-answer [post]
func (c *RespondentSurveyController) SubmitAnswer(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing identity"})
		return
	}
	surveyID, ok := c.parseSurveyID(ctx)
	if !ok {
		return
	}

	var req dto.SubmitAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswer: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	answer, err := c.answerService.SubmitAnswer(actor, surveyID, req)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to submit answer")
		return
	}
	ctx.JSON(http.StatusCreated, answer)
}

// GetMySession godoc
// @Summary Get the caller's session for a survey
// @Description Most recent session, in progress or completed, with the completion time when finished.
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param survey_id path int true "Survey ID"
// @Success 200 {object} dto.SessionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Survey ID format"
// @Failure 404 {object} dto.ErrorResponse "No session for this survey"
// @Router /surveys/{survey_id}/my-session [get]
func (c *RespondentSurveyController) GetMySession(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing identity"})
		return
	}
	surveyID, ok := c.parseSurveyID(ctx)
	if !ok {
		return
	}

	session, err := c.progressService.GetMySession(actor, surveyID)
	if err != nil {
		controller.WriteError(ctx, err, "Failed to retrieve session")
		return
	}
	ctx.JSON(http.StatusOK, session)
}
