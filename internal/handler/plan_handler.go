package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tms/internal/model"
	"tms/internal/service"
)

// PlanHandler handles plan endpoints.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlanRequest creates a plan with one NOT_RUN item per test case.
type CreatePlanRequest struct {
	Name        string      `json:"name" validate:"required"`
	Description *string     `json:"description"`
	TestCaseIDs []uuid.UUID `json:"testCaseIds" validate:"required,min=1"`
	Assignee    *string     `json:"assignee"`
}

// UpdatePlanRequest changes plan metadata.
type UpdatePlanRequest struct {
	Name        *string                `json:"name" validate:"omitempty,min=1"`
	Description model.Optional[string] `json:"description" swaggertype:"string"`
	Status      *model.PlanStatus      `json:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED"`
}

// UpdateItemRequest records a result and/or comment on one plan item.
type UpdateItemRequest struct {
	Result  *model.Result          `json:"result" validate:"omitempty,oneof=NOT_RUN IN_PROGRESS PASS FAIL BLOCK"`
	Comment model.Optional[string] `json:"comment" swaggertype:"string"`
}

// BulkUpdateItemsRequest records one result on many plan items.
type BulkUpdateItemsRequest struct {
	Items   []uuid.UUID            `json:"items" validate:"required,min=1"`
	Result  model.Result           `json:"result" validate:"required,oneof=NOT_RUN IN_PROGRESS PASS FAIL BLOCK"`
	Comment model.Optional[string] `json:"comment" swaggertype:"string"`
}

// Create godoc
// @Summary Create a plan
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePlanRequest true "Plan"
// @Success 201 {object} Response{data=model.Plan}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans [post]
func (h *PlanHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req CreatePlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	plan, err := h.planService.Create(c.Request().Context(), service.CreatePlanInput{
		Name:        req.Name,
		Description: req.Description,
		TestCaseIDs: req.TestCaseIDs,
		Assignee:    req.Assignee,
		CreatedBy:   claims.Email,
	})
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusCreated, plan)
}

// List godoc
// @Summary List plans with result stats
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param status query string false "ACTIVE or ARCHIVED"
// @Success 200 {object} Response{data=[]model.Plan}
// @Failure 400 {object} errors.ErrorResponse
// @Router /plans [get]
func (h *PlanHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "ALL" {
		status = ""
	}
	plans, err := h.planService.List(c.Request().Context(), status)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, plans)
}

// Get godoc
// @Summary Plan detail
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} Response{data=model.Plan}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	plan, err := h.planService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, plan)
}

// Update godoc
// @Summary Update plan metadata
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param request body UpdatePlanRequest true "Fields"
// @Success 200 {object} Response{data=model.Plan}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans/{id} [patch]
func (h *PlanHandler) Update(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdatePlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	plan, err := h.planService.Update(c.Request().Context(), id, service.UpdatePlanInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, plan)
}

// Delete godoc
// @Summary Delete a plan
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans/{id} [delete]
func (h *PlanHandler) Delete(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.planService.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "plan deleted"})
}

// Rerun godoc
// @Summary Copy a plan with every result reset
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 201 {object} Response{data=model.Plan}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans/{id}/rerun [post]
func (h *PlanHandler) Rerun(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	plan, err := h.planService.Rerun(c.Request().Context(), id, claims.Email)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusCreated, plan)
}

// UpdateItem godoc
// @Summary Record a result on a plan item
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param itemId path string true "Plan item ID"
// @Param request body UpdateItemRequest true "Result"
// @Success 200 {object} Response{data=model.PlanItem}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans/{id}/items/{itemId} [patch]
func (h *PlanHandler) UpdateItem(c echo.Context) error {
	planID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	itemID, err := uuidParam(c, "itemId")
	if err != nil {
		return err
	}
	var req UpdateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.planService.UpdateItem(c.Request().Context(), planID, itemID, service.UpdateItemInput{
		Result:  req.Result,
		Comment: req.Comment,
	})
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, item)
}

// BulkUpdateItems godoc
// @Summary Record one result on many plan items
// @Description Items that do not belong to the plan are ignored.
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param request body BulkUpdateItemsRequest true "Result"
// @Success 200 {object} Response{data=CountResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Router /plans/{id}/items/bulk [patch]
func (h *PlanHandler) BulkUpdateItems(c echo.Context) error {
	planID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req BulkUpdateItemsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	n, err := h.planService.BulkUpdateItems(c.Request().Context(), planID, req.Items, req.Result, req.Comment)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, CountResponse{Count: n, Message: fmt.Sprintf("%d items updated", n)})
}
