package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/akave-ai/confprompt/internal/response"
)

// PromptHandler serves stateless prompt generation (POST /prompts) and the
// list of accepted formats (GET /formats).
type PromptHandler struct {
	Prompter *Prompter
}

// Generate decodes the request body and returns its prompts.
// Query: format (json|yaml), prefix.
func (h *PromptHandler) Generate(c echo.Context) error {
	data, err := readDocument(c.Request().Body)
	if err != nil {
		return documentError(c, err)
	}
	d, err := h.Prompter.Decoder(c.QueryParam("format"), "", c.Request().Header.Get(echo.HeaderContentType))
	if err != nil {
		return response.BadRequest(c, "unsupported format", err.Error())
	}
	return h.Prompter.Respond(c, d, data)
}

// ListFormats returns the registered document formats (GET /formats).
func (h *PromptHandler) ListFormats(c echo.Context) error {
	return response.OK(c, map[string]any{"formats": h.Prompter.Sources.AllFormatsInfo()}, "")
}
