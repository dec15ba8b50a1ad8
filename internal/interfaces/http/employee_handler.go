package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TalentoHR-api/internal/application/dto"
	"github.com/jhoicas/TalentoHR-api/internal/application/lifecycle"
)

// EmployeeHandler maneja las peticiones HTTP del directorio de empleados.
type EmployeeHandler struct {
	directory *lifecycle.DirectoryUseCase
}

// NewEmployeeHandler construye el handler inyectando el caso de uso.
func NewEmployeeHandler(directory *lifecycle.DirectoryUseCase) *EmployeeHandler {
	return &EmployeeHandler{directory: directory}
}

// List godoc
// @Summary      Listar empleados vivos del tenant
// @Tags         employees
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.EmployeeListResponse
// @Router       /api/employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	employees, err := h.directory.ListEmployees(c.Context(), GetOrganizationID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, dto.ToEmployeeResponse(e))
	}
	return c.JSON(dto.EmployeeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// GetByID godoc
// @Summary      Obtener un empleado vivo por ID
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "ID del empleado"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *fiber.Ctx) error {
	emp, err := h.directory.GetEmployee(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToEmployeeResponse(emp))
}
