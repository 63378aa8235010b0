package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-reservation/services"
	"hotel-reservation/utils"
)

type CustomerController struct {
	CustomerSvc *services.CustomerService
}

func NewCustomerController(svc *services.CustomerService) *CustomerController {
	return &CustomerController{CustomerSvc: svc}
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// CreateCustomer (POST /api/customers)
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	var in services.RegisterCustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid customer payload: "+err.Error())
		return
	}
	customer, err := ctrl.CustomerSvc.Register(c.Request.Context(), in)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	log.Printf("✅ customer #%d registered (%s)", customer.ID, customer.Username)
	utils.JSONSuccess(c, http.StatusCreated, customer)
}

// GetCustomer (GET /api/customers/:id)
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	customer, err := ctrl.CustomerSvc.Get(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}

// LookupCustomer (GET /api/customers/lookup?identifier=)
func (ctrl *CustomerController) LookupCustomer(c *gin.Context) {
	identifier, ok := utils.RequireQuery(c, "identifier")
	if !ok {
		return
	}
	customer, err := ctrl.CustomerSvc.Lookup(c.Request.Context(), identifier)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}

// SetActive (PATCH /api/customers/:id/active)
func (ctrl *CustomerController) SetActive(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "active is required")
		return
	}
	customer, err := ctrl.CustomerSvc.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}
