package controllers

import (
	"insuranceapi/config"
	"insuranceapi/middleware"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into v. Malformed bodies are reported as 400.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		utils.ErrorResponse(c, utils.NewValidationError("", "invalid request body: "+err.Error()))
		return false
	}
	return true
}

// bindRequest decodes and validates a request DTO.
func bindRequest(c *gin.Context, v interface{}) bool {
	if !bindJSON(c, v) {
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		utils.ErrorResponse(c, err)
		return false
	}
	return true
}

// currentActor returns the signed-in actor, answering 401 when there is none.
func currentActor(c *gin.Context) (dto.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, utils.NewUnauthorizedError(""))
		return dto.Actor{}, false
	}
	return actor, true
}

// pageRequest reads page and page_size with the configured defaults.
func pageRequest(c *gin.Context) dto.PageRequest {
	page, _ := utils.QueryInt(c, "page", 1)
	size, _ := utils.QueryInt(c, "page_size", config.Cfg.PageSizeDefault)
	return dto.PageRequest{Page: page, PageSize: size}.Normalize(config.Cfg.PageSizeDefault, config.Cfg.PageSizeMax)
}

func writePage[T any](c *gin.Context, page dto.PageResult[T]) {
	utils.ListResponse(c, page.Items, utils.PaginationMetadata{
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}
