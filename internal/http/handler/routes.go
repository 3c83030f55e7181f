package handler

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"fileapi/internal/repository"
	"fileapi/internal/service"
	"fileapi/internal/storage"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers thin: parse, delegate to the services, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, fileSvc service.FileService, recordSvc service.RecordService, uploadRoot string) {
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

	// Upload a file into a system folder (multipart/form-data, field name: file)
	app.Post("/upload", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		system := c.FormValue("system")
		if system == "" {
			return writeError(c, fiber.StatusBadRequest, "SYSTEM_REQUIRED", "system is required")
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

		res, err := fileSvc.Upload(c.UserContext(), system, fh.Filename, ct, f, fh.Size)
		if err != nil {
			return translateUploadError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	// List files of one system, most recently modified first
	app.Get("/files/:category", func(c *fiber.Ctx) error {
		files, err := fileSvc.List(c.UserContext(), c.Params("category"))
		if err != nil {
			if errors.Is(err, storage.ErrInvalidCategory) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_SYSTEM", "unknown system")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"files": files})
	})

	// Delete one stored file (and its thumbnail)
	app.Delete("/files/:category/:filename", func(c *fiber.Ctx) error {
		err := fileSvc.Delete(c.UserContext(), c.Params("category"), c.Params("filename"))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			if errors.Is(err, storage.ErrInvalidCategory) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_SYSTEM", "unknown system")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"success": true, "message": "file deleted"})
	})

	// Delete many files at once; each item succeeds or fails independently
	app.Post("/files/batch-delete", func(c *fiber.Ctx) error {
		var body struct {
			Files []storage.BatchItem `json:"files"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if len(body.Files) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "files list is required")
		}

		res := fileSvc.BatchDelete(c.UserContext(), body.Files)
		return c.JSON(fiber.Map{
			"success":      true,
			"deletedCount": res.DeletedCount,
			"errors":       res.Errors,
		})
	})

	// Storage usage per system plus totals
	app.Get("/storage/stats", func(c *fiber.Ctx) error {
		stats, err := fileSvc.Stats(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(stats)
	})

	// Full backup: zip of every stored file plus the caller-provided data.json
	app.Post("/backup/create", func(c *fiber.Ctx) error {
		var body struct {
			Data json.RawMessage `json:"data"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		filename := fmt.Sprintf("backup_%s.zip", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/zip")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

		// The fasthttp request context stays alive while the stream writer
		// runs, after this handler has returned.
		reqCtx := c.Context()
		reqCtx.SetBodyStreamWriter(func(w *bufio.Writer) {
			if err := fileSvc.Export(reqCtx, w, body.Data); err != nil {
				log.Printf("backup export aborted: %v", err)
				return
			}
			_ = w.Flush()
		})
		return nil
	})

	// Forced download of one stored file
	app.Get("/download/:category/:filename", func(c *fiber.Ctx) error {
		path, err := fileSvc.FilePath(c.Params("category"), c.Params("filename"))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Download(path)
	})

	// Generic JSON document store, one namespace per collection
	app.Get("/api/:collection", func(c *fiber.Ctx) error {
		items, err := recordSvc.List(c.UserContext(), c.Params("collection"))
		if err != nil {
			return translateRecordError(c, err)
		}
		docs := make([]json.RawMessage, 0, len(items))
		for _, it := range items {
			docs = append(docs, it.Data)
		}
		return c.JSON(docs)
	})

	app.Post("/api/:collection", func(c *fiber.Ctx) error {
		rec, err := recordSvc.Create(c.UserContext(), c.Params("collection"), c.Body())
		if err != nil {
			return translateRecordError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec.Data)
	})

	app.Get("/api/:collection/:id", func(c *fiber.Ctx) error {
		rec, err := recordSvc.Get(c.UserContext(), c.Params("collection"), c.Params("id"))
		if err != nil {
			return translateRecordError(c, err)
		}
		return c.JSON(rec.Data)
	})

	app.Put("/api/:collection/:id", func(c *fiber.Ctx) error {
		rec, err := recordSvc.Update(c.UserContext(), c.Params("collection"), c.Params("id"), c.Body())
		if err != nil {
			return translateRecordError(c, err)
		}
		return c.JSON(rec.Data)
	})

	app.Delete("/api/:collection/:id", func(c *fiber.Ctx) error {
		if err := recordSvc.Delete(c.UserContext(), c.Params("collection"), c.Params("id")); err != nil {
			return translateRecordError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Direct static access to stored files (thumbnails included)
	app.Static("/uploads", uploadRoot)
}

func translateUploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_TYPE", "file type not allowed")
	case errors.Is(err, storage.ErrFileTooLarge):
		return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", "file exceeds the size limit")
	case errors.Is(err, storage.ErrInvalidCategory):
		return writeError(c, fiber.StatusBadRequest, "INVALID_SYSTEM", "unknown system")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func translateRecordError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCollection):
		return writeError(c, fiber.StatusBadRequest, "INVALID_COLLECTION", "invalid collection name")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "ID_REQUIRED", "id is required")
	case errors.Is(err, service.ErrInvalidDocument):
		return writeError(c, fiber.StatusBadRequest, "INVALID_DOCUMENT", "document must be a JSON object")
	case errors.Is(err, repository.ErrDuplicateID):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_ID", "a document with this id already exists")
	case errors.Is(err, repository.ErrRecordNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
