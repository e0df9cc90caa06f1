package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"insuranceapi/middleware"
	"insuranceapi/models"
	"insuranceapi/pkg/logger"
	"insuranceapi/services/job"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
)

var jobRunner *job.Runner

// SetJobRunner sets the runner whose jobs the job endpoints report.
func SetJobRunner(r *job.Runner) {
	jobRunner = r
}

// listJobs returns the state of every background job
// @Summary Background jobs
// @Description Status of the periodic jobs, ordered by name
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} JobListResponse
// @Failure 403 {object} utils.ErrorBody "Admin only"
// @Router /api/jobs [get]
func listJobs(c *gin.Context) {
	if jobRunner == nil {
		utils.ListResponse(c, []job.JobInfo{}, utils.PaginationMetadata{Page: 1, PageSize: 10})
		return
	}
	req := pageRequest(c)
	result := jobRunner.GetAllJobsPaginated(req.Page, req.PageSize)
	logger.Debugf("Retrieved status for %d jobs", len(result.Jobs))
	utils.ListResponse(c, result.Jobs, utils.PaginationMetadata{
		Total:      int64(result.Total),
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

// runJob runs a background job immediately and returns its state
// @Summary Run job now
// @Tags Jobs
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param name path string true "Job name, e.g. lookup-refresh"
// @Success 200 {object} JobResponse
// @Failure 404 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody "Job already running"
// @Failure 500 {object} utils.ErrorBody "Job run failed"
// @Router /api/jobs/{name}/run [post]
func runJob(c *gin.Context) {
	name := c.Param("name")
	if jobRunner == nil {
		utils.ErrorResponse(c, utils.NewNotFoundError("job"))
		return
	}
	if _, exists := jobRunner.GetJob(name); !exists {
		utils.ErrorResponse(c, utils.NewNotFoundError("job"))
		return
	}
	if err := jobRunner.RunNow(name); err != nil {
		if errors.Is(err, job.ErrJobRunning) {
			utils.ErrorResponse(c, utils.NewConflictError("job "+name+" is already running"))
			return
		}
		utils.ErrorResponse(c, utils.NewInternalError(fmt.Errorf("job %s: %w", name, err)))
		return
	}
	info, _ := jobRunner.GetJob(name)
	utils.OKResponse(c, http.StatusOK, "Job "+name+" finished", info)
}

// RegisterJobRoutes registers the admin job endpoints.
func RegisterJobRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs", middleware.RequireRole(models.RoleAdmin))
	{
		jobs.GET("", listJobs)
		jobs.POST("/:name/run", runJob)
	}
}
