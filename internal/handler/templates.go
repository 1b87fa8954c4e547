package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/akave-ai/confprompt/internal/model"
	"github.com/akave-ai/confprompt/internal/repository"
	"github.com/akave-ai/confprompt/internal/response"
)

var validate = validator.New()

// TemplateStore is the persistence the template endpoints need.
// *repository.TemplateRepository implements it.
type TemplateStore interface {
	Create(ctx context.Context, t *model.Template) error
	List(ctx context.Context) ([]model.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TemplateHandler handles /templates. Templates are stored documents that
// prompts are generated from on request.
type TemplateHandler struct {
	Prompter *Prompter
	Store    TemplateStore
}

type createTemplateRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Format string `json:"format" validate:"omitempty,max=32"`
	// Document holds the document text in any registered format.
	Document string `json:"document" validate:"required_without=Config"`
	// Config is a JSON object given inline; it implies format json.
	Config json.RawMessage `json:"config" validate:"required_without=Document"`
}

// ListTemplates returns all templates (GET /templates).
func (h *TemplateHandler) ListTemplates(c echo.Context) error {
	list, err := h.Store.List(c.Request().Context())
	if err != nil {
		h.Prompter.Logger.Error().Err(err).Msg("list templates")
		return response.InternalError(c, "list templates failed", err.Error())
	}
	return response.OK(c, map[string]any{"templates": list}, "")
}

// CreateTemplate validates and stores a template (POST /templates).
func (h *TemplateHandler) CreateTemplate(c echo.Context) error {
	var req createTemplateRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid JSON body", err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return response.BadRequest(c, "invalid template", err.Error())
	}
	if req.Document == "" {
		req.Document = string(req.Config)
		if req.Format == "" {
			req.Format = "json"
		}
	}

	d, err := h.Prompter.Decoder(req.Format, req.Name, "")
	if err != nil {
		return response.BadRequest(c, "unsupported format", err.Error())
	}
	if _, err := d.Decode([]byte(req.Document)); err != nil {
		return response.Unprocessable(c, "invalid "+d.Name()+" document", err.Error())
	}

	t := model.Template{
		Name:     req.Name,
		Format:   d.Name(),
		Document: req.Document,
	}
	if err := h.Store.Create(c.Request().Context(), &t); err != nil {
		if errors.Is(err, repository.ErrTemplateExists) {
			return response.Conflict(c, "template exists", err.Error())
		}
		h.Prompter.Logger.Error().Err(err).Str("name", req.Name).Msg("create template")
		return response.InternalError(c, "create template failed", err.Error())
	}
	h.Prompter.Logger.Info().Str("id", t.ID.String()).Str("name", t.Name).Str("format", t.Format).Msg("template created")
	return response.Created(c, t, "")
}

// GetTemplate returns one template (GET /templates/:id).
func (h *TemplateHandler) GetTemplate(c echo.Context) error {
	t, err := h.load(c)
	if err != nil || t == nil {
		return err
	}
	return response.OK(c, t, "")
}

// TemplatePrompts generates prompts from a stored template
// (GET /templates/:id/prompts). Query: prefix.
func (h *TemplateHandler) TemplatePrompts(c echo.Context) error {
	t, err := h.load(c)
	if err != nil || t == nil {
		return err
	}
	d, err := h.Prompter.Decoder(t.Format, "", "")
	if err != nil {
		return response.InternalError(c, "template format no longer supported", err.Error())
	}
	return h.Prompter.Respond(c, d, []byte(t.Document))
}

// DeleteTemplate removes a template (DELETE /templates/:id).
func (h *TemplateHandler) DeleteTemplate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid id", err.Error())
	}
	if err := h.Store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return response.NotFound(c, "template not found", id.String())
		}
		h.Prompter.Logger.Error().Err(err).Str("id", id.String()).Msg("delete template")
		return response.InternalError(c, "delete template failed", err.Error())
	}
	return response.OK(c, nil, "deleted")
}

// load resolves :id. On failure it writes the response itself and returns a
// nil template together with the write error (usually nil).
func (h *TemplateHandler) load(c echo.Context) (*model.Template, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, response.BadRequest(c, "invalid id", err.Error())
	}
	t, err := h.Store.GetByID(c.Request().Context(), id)
	if err != nil {
		h.Prompter.Logger.Error().Err(err).Str("id", id.String()).Msg("get template")
		return nil, response.InternalError(c, "get template failed", err.Error())
	}
	if t == nil {
		return nil, response.NotFound(c, "template not found", id.String())
	}
	return t, nil
}
