// Package handlers exposes the HTTP trigger surface: a small set of GET
// endpoints that each start one pipeline run and report its outcome. No
// request body or query parameter influences pipeline behavior.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nudge/internal/core"
	"nudge/internal/pipeline"
)

// PipelineService is the interface the trigger handlers require. The
// concrete implementation is pipeline.Service; tests inject stubs.
type PipelineService interface {
	SendEmails30DC(ctx context.Context) (*pipeline.RunReport, error)
	SendEmailsSkillset(ctx context.Context) (*pipeline.RunReport, error)
	SendWhatsApp30DC(ctx context.Context) (*pipeline.RunReport, error)
	SendAll30DC(ctx context.Context) ([]*pipeline.RunReport, error)
}

// DispatchHandler serves the pipeline trigger endpoints.
type DispatchHandler struct {
	service PipelineService
	log     *slog.Logger
}

// NewDispatchHandler builds the trigger handler.
func NewDispatchHandler(service PipelineService, log *slog.Logger) *DispatchHandler {
	return &DispatchHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes mounts the trigger endpoints on the router.
func (h *DispatchHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/send-emails/30dc", h.handleEmails30DC)
	r.Get("/api/send-emails/skillset", h.handleEmailsSkillset)
	r.Get("/api/send-emails/all", h.handleEmailsAll)
	r.Get("/api/send-whatsapp/30dc", h.handleWhatsApp30DC)
	r.Get("/api/send-all/30dc", h.handleAll30DC)
}

// runResponse is the success envelope for trigger endpoints.
type runResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Reports []*pipeline.RunReport `json:"reports,omitempty"`
}

func (h *DispatchHandler) handleEmails30DC(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.SendEmails30DC(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, runResponse{
		Success: true,
		Message: "30dc email notifications dispatched",
		Reports: []*pipeline.RunReport{report},
	})
}

func (h *DispatchHandler) handleEmailsSkillset(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.SendEmailsSkillset(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, runResponse{
		Success: true,
		Message: "skillset email notifications dispatched",
		Reports: []*pipeline.RunReport{report},
	})
}

// handleEmailsAll runs both email pipelines sequentially. The 30dc run's
// report is still returned when the skillset run fails partway.
func (h *DispatchHandler) handleEmailsAll(w http.ResponseWriter, r *http.Request) {
	var reports []*pipeline.RunReport

	thirtyDC, err := h.service.SendEmails30DC(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	reports = append(reports, thirtyDC)

	skillset, err := h.service.SendEmailsSkillset(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	reports = append(reports, skillset)

	core.JSON(w, r, http.StatusOK, runResponse{
		Success: true,
		Message: "all email notifications dispatched",
		Reports: reports,
	})
}

func (h *DispatchHandler) handleWhatsApp30DC(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.SendWhatsApp30DC(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, runResponse{
		Success: true,
		Message: "30dc whatsapp notifications dispatched",
		Reports: []*pipeline.RunReport{report},
	})
}

func (h *DispatchHandler) handleAll30DC(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.SendAll30DC(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, runResponse{
		Success: true,
		Message: "30dc email and whatsapp notifications dispatched",
		Reports: reports,
	})
}
