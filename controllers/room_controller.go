package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"
)

type UpdateRoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RoomController struct {
	RoomSvc        *services.RoomService
	ReservationSvc *services.ReservationService
}

func NewRoomController(rooms *services.RoomService, reservations *services.ReservationService) *RoomController {
	return &RoomController{RoomSvc: rooms, ReservationSvc: reservations}
}

// ----------------------------------------------------
// GET /api/rooms
// ----------------------------------------------------

func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.List(c.Request.Context())
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// ----------------------------------------------------
// POST /api/rooms
// ----------------------------------------------------

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var in services.CreateRoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	room, err := ctrl.RoomSvc.Create(c.Request.Context(), in)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// ----------------------------------------------------
// PATCH /api/rooms/:id/status
// ----------------------------------------------------

func (ctrl *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	var req UpdateRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}
	room, err := ctrl.RoomSvc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// GET /api/rooms/availability?type=&capacity=&start=&end=
// ----------------------------------------------------

func (ctrl *RoomController) SearchAvailability(c *gin.Context) {
	rawStart, ok := utils.RequireQuery(c, "start")
	if !ok {
		return
	}
	rawEnd, ok := utils.RequireQuery(c, "end")
	if !ok {
		return
	}
	start, err := utils.ParseDate("start", rawStart)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	end, err := utils.ParseDate("end", rawEnd)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}

	var roomType models.RoomType
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		roomType = models.NormalizeRoomType(raw)
	}
	capacity := 1
	if raw := strings.TrimSpace(c.Query("capacity")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.JSONError(c, http.StatusBadRequest, "capacity must be a positive number")
			return
		}
		capacity = n
	}

	rows, err := ctrl.ReservationSvc.SearchAvailableRooms(c.Request.Context(), roomType, capacity, start, end)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}
