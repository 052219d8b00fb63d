package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
	"github.com/VioletaSoft/salon-scheduler/internal/httperr"
	"github.com/VioletaSoft/salon-scheduler/internal/httpresp"
	"github.com/VioletaSoft/salon-scheduler/internal/middleware"
	"github.com/VioletaSoft/salon-scheduler/internal/models"
	ucAppointment "github.com/VioletaSoft/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC         *ucAppointment.CreateAppointment
	checkConflictsUC *ucAppointment.CheckConflicts
	confirmUC        *ucAppointment.ConfirmAppointment
	checkInUC        *ucAppointment.CheckInAppointment
	startUC          *ucAppointment.StartAppointment
	completeUC       *ucAppointment.CompleteAppointment
	cancelUC         *ucAppointment.CancelAppointment
	noShowUC         *ucAppointment.MarkNoShow
	rescheduleUC     *ucAppointment.RescheduleAppointment
	updateUC         *ucAppointment.UpdateAppointment
	listByDateUC     *ucAppointment.ListAppointmentsByDate
	listByMonthUC    *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucAppointment.CreateAppointment,
	checkConflictsUC *ucAppointment.CheckConflicts,
	confirmUC *ucAppointment.ConfirmAppointment,
	checkInUC *ucAppointment.CheckInAppointment,
	startUC *ucAppointment.StartAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	noShowUC *ucAppointment.MarkNoShow,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonthUC *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:               db,
		createUC:         createUC,
		checkConflictsUC: checkConflictsUC,
		confirmUC:        confirmUC,
		checkInUC:        checkInUC,
		startUC:          startUC,
		completeUC:       completeUC,
		cancelUC:         cancelUC,
		noShowUC:         noShowUC,
		rescheduleUC:     rescheduleUC,
		updateUC:         updateUC,
		listByDateUC:     listByDateUC,
		listByMonthUC:    listByMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AppointmentItemRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type RecurrenceRequest struct {
	Type     string `json:"type" binding:"required"`
	Interval int    `json:"interval"`
	Count    int    `json:"count"`
	EndDate  string `json:"end_date"` // YYYY-MM-DD, inclusive
}

type CreateAppointmentRequest struct {
	ProfessionalID uint `json:"professional_id"`

	ClientID    uint   `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`

	Items []AppointmentItemRequest `json:"items" binding:"required"`

	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:mm

	Notes string `json:"notes"`

	Recurrence *RecurrenceRequest `json:"recurrence"`

	Override          bool `json:"override"`
	SkipConflictCheck bool `json:"skip_conflict_check"`
}

type RescheduleAppointmentRequest struct {
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	ProfessionalID uint   `json:"professional_id"`
	Reason         string `json:"reason"`
	Override       bool   `json:"override"`
}

type CancelAppointmentRequest struct {
	Reason   string `json:"reason"`
	ByClient bool   `json:"by_client"`
}

type UpdateAppointmentRequest struct {
	Notes  *string `json:"notes,omitempty"`
	Status *string `json:"status,omitempty"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *AppointmentHandler) identity(c *gin.Context) (userID, salonID uint, role string) {
	userID = c.MustGet(middleware.ContextUserID).(uint)
	salonID = c.MustGet(middleware.ContextSalonID).(uint)
	role, _ = c.MustGet(middleware.ContextUserRole).(string)
	return
}

func (h *AppointmentHandler) salon(c *gin.Context, salonID uint) (*models.Salon, bool) {
	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		httperr.Internal(c, "salon_not_found", "Salon could not be loaded.")
		return nil, false
	}
	return &salon, true
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return 0, false
	}
	return uint(id), true
}

func toRecurrenceRule(salon *models.Salon, req *RecurrenceRequest) (*domain.RecurrenceRule, error) {
	if req == nil {
		return nil, nil
	}

	rule := &domain.RecurrenceRule{
		Type:     domain.RecurrenceType(req.Type),
		Interval: req.Interval,
		Count:    req.Count,
	}

	if req.EndDate != "" {
		end, err := parseDateInSalon(salon, req.EndDate)
		if err != nil {
			return nil, err
		}
		// Inclusive upper bound: occurrences on the end date itself count.
		endOfDay := end.Add(24*time.Hour - time.Nanosecond)
		rule.EndDate = &endOfDay
	}

	return rule, nil
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID, salonID, role := h.identity(c)

	salon, ok := h.salon(c, salonID)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	start, err := parseDateTimeInSalon(salon, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	rule, err := toRecurrenceRule(salon, req.Recurrence)
	if err != nil {
		httperr.BadRequest(c, "invalid_recurrence_end_date", "Invalid recurrence end date.")
		return
	}

	professionalID := req.ProfessionalID
	if professionalID == 0 {
		professionalID = userID
	}

	items := make([]ucAppointment.ServiceLine, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ucAppointment.ServiceLine{
			ServiceID: it.ServiceID,
			Quantity:  it.Quantity,
		})
	}

	created, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		SalonID:           salonID,
		ProfessionalID:    professionalID,
		ActorID:           userID,
		ActorRole:         role,
		ClientID:          req.ClientID,
		ClientName:        req.ClientName,
		ClientPhone:       req.ClientPhone,
		ClientEmail:       req.ClientEmail,
		Items:             items,
		StartTime:         start,
		Notes:             req.Notes,
		Recurrence:        rule,
		Override:          req.Override,
		SkipConflictCheck: req.SkipConflictCheck,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	// The use case never returns an empty batch without an error, but a
	// panic here would take the whole request down with it.
	if len(created) == 0 {
		httperr.Internal(c, "empty_booking_batch", "No appointments were created.")
		return
	}

	if len(created) == 1 {
		c.JSON(http.StatusCreated, created[0])
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"recurrence_group_id": created[0].RecurrenceGroupID,
		"appointments":        created,
	})
}

// ======================================================
// CHECK CONFLICTS
// ======================================================

func (h *AppointmentHandler) CheckConflicts(c *gin.Context) {
	userID, salonID, role := h.identity(c)

	salon, ok := h.salon(c, salonID)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	timeStr := c.Query("time")
	durationStr := c.Query("duration_min")
	if dateStr == "" || timeStr == "" || durationStr == "" {
		httperr.BadRequest(c, "missing_params", "date, time and duration_min are required.")
		return
	}

	start, err := parseDateTimeInSalon(salon, dateStr, timeStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	durationMin, err := strconv.Atoi(durationStr)
	if err != nil || durationMin < 0 {
		httperr.BadRequest(c, "invalid_duration", "Invalid duration.")
		return
	}

	professionalID := userID
	if v := c.Query("professional_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			professionalID = uint(id)
		}
	}

	var clientID uint
	if v := c.Query("client_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			clientID = uint(id)
		}
	}

	var excludeID uint
	if v := c.Query("exclude_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			excludeID = uint(id)
		}
	}

	result, err := h.checkConflictsUC.Execute(c.Request.Context(), ucAppointment.CheckConflictsInput{
		SalonID:              salonID,
		ProfessionalID:       professionalID,
		ClientID:             clientID,
		StartTime:            start,
		Duration:             time.Duration(durationMin) * time.Minute,
		ExcludeAppointmentID: excludeID,
		ActorRole:            role,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	userID, salonID, _ := h.identity(c)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	salon, ok := h.salon(c, salonID)
	if !ok {
		return
	}

	date, err := parseDateInSalon(salon, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	professionalID := userID
	if v := c.Query("professional_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			professionalID = uint(id)
		}
	}

	out, err := h.listByDateUC.Execute(c.Request.Context(), salonID, professionalID, date)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	userID, salonID, _ := h.identity(c)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	professionalID := userID
	if v := c.Query("professional_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			professionalID = uint(id)
		}
	}

	out, err := h.listByMonthUC.Execute(c.Request.Context(), salonID, professionalID, year, time.Month(month))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}

// ListRecurrenceGroup returns every sibling occurrence of a recurring series.
func (h *AppointmentHandler) ListRecurrenceGroup(c *gin.Context) {
	_, salonID, _ := h.identity(c)

	groupID := c.Param("groupId")
	if groupID == "" {
		httperr.BadRequest(c, "missing_group_id", "Group id is required.")
		return
	}

	var aps []models.Appointment
	if err := h.db.
		Preload("Client").
		Where("salon_id = ? AND recurrence_group_id = ?", salonID, groupID).
		Order("recurrence_index ASC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_group", "Could not list the recurrence group.")
		return
	}

	httpresp.List(c, aps)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	userID, salonID, _ := h.identity(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.confirmUC.Execute(c.Request.Context(), salonID, userID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	userID, salonID, _ := h.identity(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.checkInUC.Execute(c.Request.Context(), salonID, userID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	userID, salonID, _ := h.identity(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.startUC.Execute(c.Request.Context(), salonID, userID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID, salonID, _ := h.identity(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), salonID, userID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID, salonID, _ := h.identity(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req) // body optional

	ap, err := h.cancelUC.Execute(c.Request.Context(), ucAppointment.CancelAppointmentInput{
		SalonID:       salonID,
		ActorID:       userID,
		AppointmentID: id,
		Reason:        req.Reason,
		ByClient:      req.ByClient,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	userID, salonID, _ := h.identity(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.noShowUC.Execute(c.Request.Context(), salonID, userID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// RESCHEDULE + UPDATE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	userID, salonID, role := h.identity(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	salon, ok := h.salon(c, salonID)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	newStart, err := parseDateTimeInSalon(salon, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), ucAppointment.RescheduleAppointmentInput{
		SalonID:           salonID,
		ActorID:           userID,
		ActorRole:         role,
		AppointmentID:     id,
		NewStart:          newStart,
		NewProfessionalID: req.ProfessionalID,
		Reason:            req.Reason,
		Override:          req.Override,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	userID, salonID, _ := h.identity(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		SalonID:       salonID,
		ActorID:       userID,
		AppointmentID: id,
		Notes:         req.Notes,
		Status:        req.Status,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
