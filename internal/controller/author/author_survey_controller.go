package author

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

type AuthorSurveyController struct {
	surveyService     service.SurveyService
	statisticsService service.StatisticsService
}

func NewAuthorSurveyController(surveyService service.SurveyService, statisticsService service.StatisticsService) *AuthorSurveyController {
	return &AuthorSurveyController{
		surveyService:     surveyService,
		statisticsService: statisticsService,
	}
}

// CreateSurvey godoc
// @Summary (Author) Create a new survey
// @Description Author creates a survey with nested questions and answer options in one atomic request.
// @Tags Author - Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param survey_data body dto.SurveyCreateDTO true "Survey creation data including questions and options"
// @Success 201 {object} dto.SurveyDTO "Survey created"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an author"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /author/surveys [post]
func (c *AuthorSurveyController) CreateSurvey(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing identity"})
		return
	}

	var req dto.SurveyCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Author CreateSurvey: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	surveyResp, err := c.surveyService.CreateSurvey(actor, req)
	if err != nil {
		log.Error().Err(err).Uint("userID", actor.ID).Msg("Author CreateSurvey: service error")
		controller.WriteError(ctx, err, "Failed to create survey")
		return
	}
	ctx.JSON(http.StatusCreated, surveyResp)
}

// DeactivateSurvey godoc
// @Summary (Author) Deactivate a survey
// @Description Owner takes the survey offline for respondents. All collected data is retained.
// @Tags Author - Surveys
// @Produce json
// @Security BearerAuth
// @Param survey_id path int true "Survey ID"
// @Success 200 {object} dto.SurveyDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Survey ID format"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the survey"
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Router /author/surveys/{survey_id}/deactivate [post]
func (c *AuthorSurveyController) DeactivateSurvey(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing identity"})
		return
	}

	surveyID, err := strconv.ParseUint(ctx.Param("survey_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Survey ID format"})
		return
	}

	surveyResp, err := c.surveyService.DeactivateSurvey(actor, uint(surveyID))
	if err != nil {
		log.Warn().Err(err).Uint64("surveyID", surveyID).Msg("Author DeactivateSurvey: service error")
		controller.WriteError(ctx, err, "Failed to deactivate survey")
		return
	}
	ctx.JSON(http.StatusOK, surveyResp)
}

// GetStatistics godoc
// @Summary (Author) Get survey statistics
// @Description Owner-only aggregate view: response counts, average completion time and per-question answer distributions.
// @Tags Author - Surveys
// @Produce json
// @Security BearerAuth
// @Param survey_id path int true "Survey ID"
// @Success 200 {object} dto.SurveyStatisticsDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Survey ID format"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the survey"
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Router /author/surveys/{survey_id}/statistics [get]
func (c *AuthorSurveyController) GetStatistics(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing identity"})
		return
	}

	surveyID, err := strconv.ParseUint(ctx.Param("survey_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Survey ID format"})
		return
	}

	stats, err := c.statisticsService.GetStatistics(actor, uint(surveyID))
	if err != nil {
		log.Warn().Err(err).Uint64("surveyID", surveyID).Uint("userID", actor.ID).Msg("Author GetStatistics: service error")
		controller.WriteError(ctx, err, "Failed to compute survey statistics")
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
