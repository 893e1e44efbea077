package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// parse and validate input, delegate to the services, and translate errors;
// business rules live below this layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, typeSvc service.DocumentTypeService, classSvc service.ClassificationService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	registerDocumentRoutes(app, docSvc, classSvc)
	registerDocumentTypeRoutes(app, typeSvc, docSvc)
}

func registerDocumentRoutes(app *fiber.App, docSvc service.DocumentService, classSvc service.ClassificationService) {
	// Search and list; an empty q lists all non-deleted documents
	app.Get("/documents", func(c *fiber.Ctx) error {
		limit, offset, ok := parsePage(c)
		if !ok {
			return nil
		}
		var typeID *string
		if v := c.Query("type_id"); v != "" {
			if _, err := uuid.Parse(v); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_TYPE_ID", "invalid type_id format")
			}
			typeID = &v
		}

		res, err := docSvc.Search(c.UserContext(), c.Query("q"), typeID, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	app.Get("/documents/recent", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		docs, err := docSvc.Recent(c.UserContext(), limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs})
	})

	app.Get("/documents/count", func(c *fiber.Ctx) error {
		n, err := docSvc.Count(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"count": n})
	})

	// Upload document (multipart/form-data, field name: file)
	app.Post("/documents", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		cmd := service.UploadCommand{
			Name:        c.FormValue("name"),
			Description: c.FormValue("description"),
			Filename:    fh.Filename,
			ContentType: ct,
		}
		if v := c.FormValue("document_type_id"); v != "" {
			if _, err := uuid.Parse(v); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_TYPE_ID", "invalid document_type_id format")
			}
			cmd.DocumentTypeID = &v
		}
		if v := c.FormValue("uploaded_by_id"); v != "" {
			cmd.UploadedByID = v
		}
		if v := c.FormValue("metadata"); v != "" {
			if err := json.Unmarshal([]byte(v), &cmd.Metadata); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_METADATA", "metadata must be a JSON object of string values")
			}
		}

		doc, err := docSvc.Upload(c.UserContext(), f, cmd)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	})

	app.Get("/documents/:id", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	})

	app.Get("/documents/:id/content", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		rc, info, err := docSvc.GetContent(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		if info.Size > 0 {
			c.Set(fiber.HeaderContentLength, strconv.FormatInt(info.Size, 10))
		}
		return c.SendStream(rc)
	})

	// Presigned direct-download URL, for clients that prefer to pull the
	// bytes from object storage themselves
	app.Get("/documents/:id/download-url", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		url, err := docSvc.DownloadURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	})

	// Update descriptive fields; a null metadata field leaves stored metadata
	// untouched, a present object replaces it wholesale
	app.Put("/documents/:id", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		var body struct {
			Name           string            `json:"name"`
			Description    string            `json:"description"`
			DocumentTypeID *string           `json:"document_type_id"`
			Metadata       map[string]string `json:"metadata"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if body.DocumentTypeID != nil {
			if _, err := uuid.Parse(*body.DocumentTypeID); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_TYPE_ID", "invalid document_type_id format")
			}
		}

		doc, err := docSvc.Update(c.UserContext(), id, service.UpdateCommand{
			Name:           body.Name,
			Description:    body.Description,
			DocumentTypeID: body.DocumentTypeID,
			Metadata:       body.Metadata,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	})

	app.Delete("/documents/:id", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		ok, err := docSvc.Delete(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// File versions
	app.Post("/documents/:id/versions", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		info, err := docSvc.SaveVersion(c.UserContext(), id, f, fh.Filename, c.FormValue("saved_by"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(info)
	})

	app.Get("/documents/:id/versions", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		versions, err := docSvc.VersionHistory(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": versions})
	})

	app.Get("/documents/:id/versions/:version/content", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		version, err := strconv.Atoi(c.Params("version"))
		if err != nil || version < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_VERSION", "invalid version number")
		}
		rc, info, err := docSvc.GetVersion(c.UserContext(), id, version)
		if err != nil {
			return writeServiceError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		return c.SendStream(rc)
	})

	// Classification: re-classify stored content and apply the outcome. A
	// failed classification is reported in a 200 body, not as an error.
	app.Post("/documents/:id/classify", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		rc, _, err := docSvc.GetContent(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		defer rc.Close()

		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		result, err := classSvc.Classify(c.UserContext(), rc, doc.FilePath)
		if err != nil {
			return writeServiceError(c, err)
		}

		applied := false
		if result.IsSuccessful {
			applied, err = classSvc.Apply(c.UserContext(), id, result)
			if err != nil {
				return writeServiceError(c, err)
			}
		}
		return c.JSON(fiber.Map{"result": result, "applied": applied})
	})

	app.Get("/documents/:id/classifications", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		history, err := classSvc.History(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": history})
	})

	app.Delete("/documents/:id/classifications", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		ok, err := classSvc.Reset(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func registerDocumentTypeRoutes(app *fiber.App, typeSvc service.DocumentTypeService, docSvc service.DocumentService) {
	app.Get("/document-types", func(c *fiber.Ctx) error {
		limit, offset, ok := parsePage(c)
		if !ok {
			return nil
		}
		activeOnly := c.QueryBool("active_only")
		res, err := typeSvc.List(c.UserContext(), limit, offset, activeOnly)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	app.Post("/document-types", func(c *fiber.Ctx) error {
		var body struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		dt, err := typeSvc.Create(c.UserContext(), service.TypeCommand{Name: body.Name, Description: body.Description})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dt)
	})

	app.Get("/document-types/:id", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		dt, err := typeSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(dt)
	})

	app.Put("/document-types/:id", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		var body struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		dt, err := typeSvc.Update(c.UserContext(), id, service.TypeCommand{Name: body.Name, Description: body.Description})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(dt)
	})

	app.Delete("/document-types/:id", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		ok, err := typeSvc.Delete(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document type not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/document-types/:id/deactivate", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		if err := typeSvc.Deactivate(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/document-types/:id/documents", func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return nil
		}
		limit, offset, ok := parsePage(c)
		if !ok {
			return nil
		}
		res, err := docSvc.ListByType(c.UserContext(), id, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})
}

// pathID validates the :id path parameter as a UUID. On failure it writes the
// error response and reports false.
func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		return "", false
	}
	return id, true
}

// parsePage reads limit/offset query parameters; bounds are enforced by the
// services. On failure it writes the error response and reports false.
func parsePage(c *fiber.Ctx) (int, int, bool) {
	limit, err := strconv.Atoi(c.Query("limit", "0"))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		return 0, 0, false
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		return 0, 0, false
	}
	return limit, offset, true
}
