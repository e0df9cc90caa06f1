package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"insuranceapi/pkg/reminder"
	"insuranceapi/services"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
)

var reminderSrv services.ReminderService

// SetReminderService sets the reminder service used by the reminder handlers.
func SetReminderService(s services.ReminderService) {
	reminderSrv = s
}

// reminderOptions reads the type and grouped query parameters shared by every reminder endpoint.
func reminderOptions(c *gin.Context) (reminder.Kind, bool, error) {
	kind, err := reminder.ParseKind(c.Query("type"))
	if err != nil {
		return "", false, err
	}
	grouped := false
	if raw := strings.TrimSpace(c.Query("grouped")); raw != "" {
		grouped, err = strconv.ParseBool(raw)
		if err != nil {
			return "", false, utils.NewValidationError("grouped", fmt.Sprintf("invalid grouped %q", raw))
		}
	}
	return kind, grouped, nil
}

// getTodayReminders lists birthdays and anniversaries falling today
// @Summary Today's reminders
// @Tags Reminders
// @Produce json
// @Param type query string false "Which dates to match" Enums(birthday, anniversary, both) default(both)
// @Param grouped query bool false "Group matches by date"
// @Success 200 {object} ReminderAPIResponse
// @Failure 400 {object} utils.ErrorBody
// @Router /api/reminders/today [get]
func getTodayReminders(c *gin.Context) {
	kind, grouped, err := reminderOptions(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	resp, err := reminderSrv.Today(c.Request.Context(), kind, grouped)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", resp)
}

// getUpcomingReminders lists birthdays and anniversaries from today through today + days
// @Summary Upcoming reminders
// @Tags Reminders
// @Produce json
// @Param days query int false "Days ahead, 0 to 366; the configured default when omitted"
// @Param type query string false "Which dates to match" Enums(birthday, anniversary, both) default(both)
// @Param grouped query bool false "Group matches by date"
// @Success 200 {object} ReminderAPIResponse
// @Failure 400 {object} utils.ErrorBody "Invalid days or type"
// @Router /api/reminders/upcoming [get]
func getUpcomingReminders(c *gin.Context) {
	kind, grouped, err := reminderOptions(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	days := reminderSrv.DefaultDays()
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			utils.ErrorResponse(c, utils.NewValidationError("days", fmt.Sprintf("invalid days %q", raw)))
			return
		}
	}
	resp, err := reminderSrv.Upcoming(c.Request.Context(), days, kind, grouped)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", resp)
}

// getRangeReminders lists birthdays and anniversaries between two dates
// @Summary Reminders in a date range
// @Description Occurrences are projected forward from start and days_until counts from today; the range may span at most 366 days
// @Tags Reminders
// @Produce json
// @Param start query string true "First day (YYYY-MM-DD)"
// @Param end query string true "Last day (YYYY-MM-DD)"
// @Param type query string false "Which dates to match" Enums(birthday, anniversary, both) default(both)
// @Param grouped query bool false "Group matches by date"
// @Success 200 {object} ReminderAPIResponse
// @Failure 400 {object} utils.ErrorBody
// @Router /api/reminders/range [get]
func getRangeReminders(c *gin.Context) {
	kind, grouped, err := reminderOptions(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	start, err := reminder.ParseDate("start", c.Query("start"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	end, err := reminder.ParseDate("end", c.Query("end"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	resp, err := reminderSrv.Range(c.Request.Context(), start, end, kind, grouped)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", resp)
}

// getReminderSummary returns the reminder counts for the dashboard badge
// @Summary Reminder summary
// @Tags Reminders
// @Produce json
// @Success 200 {object} ReminderSummaryResponse
// @Router /api/reminders/summary [get]
func getReminderSummary(c *gin.Context) {
	summary, err := reminderSrv.Summary(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.OKResponse(c, http.StatusOK, "", summary)
}

// RegisterReminderRoutes registers HTTP endpoints for birthday and anniversary reminders.
func RegisterReminderRoutes(rg *gin.RouterGroup) {
	reminders := rg.Group("/reminders")
	{
		reminders.GET("/today", getTodayReminders)
		reminders.GET("/upcoming", getUpcomingReminders)
		reminders.GET("/range", getRangeReminders)
		reminders.GET("/summary", getReminderSummary)
	}
}
