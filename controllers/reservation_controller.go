package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

// CreateReservationRequest identifies the customer by id or by username/email.
type CreateReservationRequest struct {
	CustomerID         uint   `json:"customer_id"`
	CustomerIdentifier string `json:"customer_identifier"`
	RoomID             uint   `json:"room_id" binding:"required"`
	StartDate          string `json:"start_date" binding:"required"`
	EndDate            string `json:"end_date" binding:"required"`
	StaffID            *uint  `json:"staff_id"`
}

type StaffActionRequest struct {
	StaffID uint `json:"staff_id" binding:"required"`
}

// ---------------------------
// Controller
// ---------------------------

type ReservationController struct {
	ReservationSvc *services.ReservationService
	CustomerSvc    *services.CustomerService
}

func NewReservationController(rs *services.ReservationService, cs *services.CustomerService) *ReservationController {
	return &ReservationController{ReservationSvc: rs, CustomerSvc: cs}
}

// CreateReservation (POST /api/reservations)
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid reservation payload: "+err.Error())
		return
	}
	start, err := utils.ParseDate("start_date", req.StartDate)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	end, err := utils.ParseDate("end_date", req.EndDate)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}

	customerID := req.CustomerID
	if customerID == 0 {
		if strings.TrimSpace(req.CustomerIdentifier) == "" {
			utils.JSONError(c, http.StatusBadRequest, "customer_id or customer_identifier is required")
			return
		}
		customer, err := ctrl.CustomerSvc.Lookup(c.Request.Context(), req.CustomerIdentifier)
		if err != nil {
			utils.JSONAppError(c, err)
			return
		}
		customerID = customer.ID
	}

	res, err := ctrl.ReservationSvc.BookRoom(c.Request.Context(), customerID, req.RoomID, start, end, req.StaffID)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

// ListReservations (GET /api/reservations?customer=&room=&start=&end=)
func (ctrl *ReservationController) ListReservations(c *gin.Context) {
	start, err := utils.OptionalDate("start", c.Query("start"))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	end, err := utils.OptionalDate("end", c.Query("end"))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	filter := models.ReservationFilter{
		CustomerText: strings.TrimSpace(c.Query("customer")),
		RoomText:     strings.TrimSpace(c.Query("room")),
		Start:        start,
		End:          end,
	}

	var out []models.Reservation
	if filter == (models.ReservationFilter{}) {
		out, err = ctrl.ReservationSvc.ListAll(c.Request.Context())
	} else {
		out, err = ctrl.ReservationSvc.Search(c.Request.Context(), filter)
	}
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GetReservation (GET /api/reservations/:id)
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	res, err := ctrl.ReservationSvc.GetReservation(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// ListActions (GET /api/reservations/:id/actions)
func (ctrl *ReservationController) ListActions(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	actions, err := ctrl.ReservationSvc.ListActions(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, actions)
}

type staffAction func(svc *services.ReservationService, c *gin.Context, reservationID, staffID uint) (*models.Reservation, error)

// staffHandler binds {staff_id} and runs one lifecycle or payment action.
func (ctrl *ReservationController) staffHandler(action staffAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.ParamID(c, "id")
		if err != nil {
			utils.JSONAppError(c, err)
			return
		}
		var req StaffActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "staff_id is required")
			return
		}
		res, err := action(ctrl.ReservationSvc, c, id, req.StaffID)
		if err != nil {
			utils.JSONAppError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, res)
	}
}

// CheckIn (POST /api/reservations/:id/check-in)
func (ctrl *ReservationController) CheckIn() gin.HandlerFunc {
	return ctrl.staffHandler(func(svc *services.ReservationService, c *gin.Context, id, staffID uint) (*models.Reservation, error) {
		return svc.CheckIn(c.Request.Context(), id, staffID)
	})
}

// CheckOut (POST /api/reservations/:id/check-out)
func (ctrl *ReservationController) CheckOut() gin.HandlerFunc {
	return ctrl.staffHandler(func(svc *services.ReservationService, c *gin.Context, id, staffID uint) (*models.Reservation, error) {
		return svc.CheckOut(c.Request.Context(), id, staffID)
	})
}

// Cancel (POST /api/reservations/:id/cancel)
func (ctrl *ReservationController) Cancel() gin.HandlerFunc {
	return ctrl.staffHandler(func(svc *services.ReservationService, c *gin.Context, id, staffID uint) (*models.Reservation, error) {
		return svc.CancelReservation(c.Request.Context(), id, staffID)
	})
}

// MarkPaid (POST /api/reservations/:id/pay)
func (ctrl *ReservationController) MarkPaid() gin.HandlerFunc {
	return ctrl.staffHandler(func(svc *services.ReservationService, c *gin.Context, id, staffID uint) (*models.Reservation, error) {
		return svc.MarkPaid(c.Request.Context(), id, staffID)
	})
}

// Refund (POST /api/reservations/:id/refund)
func (ctrl *ReservationController) Refund() gin.HandlerFunc {
	return ctrl.staffHandler(func(svc *services.ReservationService, c *gin.Context, id, staffID uint) (*models.Reservation, error) {
		return svc.Refund(c.Request.Context(), id, staffID)
	})
}

// ListCustomerReservations (GET /api/customers/:id/reservations)
func (ctrl *ReservationController) ListCustomerReservations(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	out, err := ctrl.ReservationSvc.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// ListCustomerHistory (GET /api/customers/:id/reservations/history)
func (ctrl *ReservationController) ListCustomerHistory(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	out, err := ctrl.ReservationSvc.ListHistory(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// CancelByCustomer (POST /api/customers/:id/reservations/:reservationId/cancel)
func (ctrl *ReservationController) CancelByCustomer(c *gin.Context) {
	customerID, err := utils.ParamID(c, "id")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	reservationID, err := utils.ParamID(c, "reservationId")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	res, err := ctrl.ReservationSvc.CancelReservationByCustomer(c.Request.Context(), reservationID, customerID)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}
