package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/akave-ai/confprompt/internal/response"
	"github.com/akave-ai/confprompt/internal/storage"
)

// ObjectStore is the bucket access the object endpoints need.
// *storage.O3Client implements it.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// ObjectHandler handles /objects: configuration documents kept in O3.
type ObjectHandler struct {
	Prompter *Prompter
	Store    ObjectStore
}

// ListObjects lists stored documents (GET /objects). Query: prefix.
func (h *ObjectHandler) ListObjects(c echo.Context) error {
	prefix := c.QueryParam("prefix")
	if prefix == "" {
		prefix = storage.DocumentPrefix
	}
	list, err := h.Store.ListObjects(c.Request().Context(), prefix)
	if err != nil {
		return response.InternalError(c, "list objects failed", err.Error())
	}
	return response.OK(c, map[string]any{"objects": list}, "")
}

// PutObject stores the request body as a document (PUT /objects?key=).
// The body must decode in its format before it is stored.
func (h *ObjectHandler) PutObject(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return response.BadRequest(c, "missing key", "query param key is required")
	}
	key = storage.DocumentKey(key)

	data, err := readDocument(c.Request().Body)
	if err != nil {
		return documentError(c, err)
	}
	d, err := h.Prompter.Decoder(c.QueryParam("format"), key, c.Request().Header.Get(echo.HeaderContentType))
	if err != nil {
		return response.BadRequest(c, "unsupported format", err.Error())
	}
	if _, err := d.Decode(data); err != nil {
		return response.Unprocessable(c, "invalid "+d.Name()+" document", err.Error())
	}

	contentType := echo.MIMEOctetStream
	if cts := d.Info().ContentTypes; len(cts) > 0 {
		contentType = cts[0]
	}
	if err := h.Store.PutObject(c.Request().Context(), key, data, contentType); err != nil {
		h.Prompter.Logger.Error().Err(err).Str("key", key).Msg("put object")
		return response.InternalError(c, "upload failed", err.Error())
	}
	return response.Created(c, map[string]any{"key": key, "format": d.Name(), "size": len(data)}, "")
}

// ObjectPrompts generates prompts from a stored document
// (GET /objects/prompts?key=). Query: format, prefix.
func (h *ObjectHandler) ObjectPrompts(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return response.BadRequest(c, "missing key", "query param key is required")
	}
	key = storage.DocumentKey(key)

	d, err := h.Prompter.Decoder(c.QueryParam("format"), key, "")
	if err != nil {
		return response.BadRequest(c, "unsupported format", err.Error())
	}
	data, err := h.Store.GetObject(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return response.NotFound(c, "object not found", key)
		}
		return response.InternalError(c, "get object failed", err.Error())
	}
	return h.Prompter.Respond(c, d, data)
}
