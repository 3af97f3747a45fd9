package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/company"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/metrics"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

type CompanyHandler struct {
	store *company.Store
}

func NewCompanyHandler(store *company.Store) *CompanyHandler {
	return &CompanyHandler{store: store}
}

func (h *CompanyHandler) List(c *fiber.Ctx) error {
	names, err := h.store.Names()
	if err != nil {
		return companyError(c, err)
	}

	return c.JSON(fiber.Map{
		"companies": names,
		"count":     len(names),
	})
}

func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	name, err := companyName(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company name",
		})
	}

	profile, err := h.store.Get(name)
	if err != nil {
		return companyError(c, err)
	}

	return c.JSON(fiber.Map{
		"name":    name,
		"profile": profile,
	})
}

func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name    string          `json:"name"`
		Profile company.Profile `json:"profile"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.store.Add(req.Name, req.Profile); err != nil {
		return companyError(c, err)
	}
	h.syncCompanyGauge()

	logger.Info("Company created", zap.String("company", req.Name))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"name": req.Name,
	})
}

func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	name, err := companyName(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company name",
		})
	}

	var profile company.Profile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.store.Update(name, profile); err != nil {
		return companyError(c, err)
	}

	logger.Info("Company updated", zap.String("company", name))
	return c.JSON(fiber.Map{
		"name": name,
	})
}

func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	name, err := companyName(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company name",
		})
	}

	if err := h.store.Delete(name); err != nil {
		return companyError(c, err)
	}
	h.syncCompanyGauge()

	logger.Info("Company deleted", zap.String("company", name))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CompanyHandler) Deletions(c *fiber.Ctx) error {
	name, err := companyName(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company name",
		})
	}

	events, err := h.store.DeletionHistory(name)
	if err != nil {
		return companyError(c, err)
	}

	return c.JSON(fiber.Map{
		"name":      name,
		"deletions": events,
	})
}

func (h *CompanyHandler) syncCompanyGauge() {
	if count, err := h.store.Count(); err == nil {
		metrics.CompaniesTotal.Set(float64(count))
	}
}

// companyName decodes the :name path segment, which may contain spaces
// or accented characters.
func companyName(c *fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("name"))
}

func companyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, company.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, company.ErrDuplicateName):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, company.ErrEmptyName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Error("Company request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
