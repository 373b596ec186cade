package handler

import (
	"errors"
	"net/http"

	"camstation/internal/config"
	"camstation/internal/dto"
	"camstation/internal/logger"
	"camstation/internal/repository"
	"camstation/internal/service/query"
	"camstation/internal/service/storage"
)

// GetImagesHandler returns one gallery page. The gallery is driven by the log,
// so it supports the same filters and sorting as the log table.
func GetImagesHandler(store repository.SessionLogStore, images *storage.ImageStore, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), cfg.GalleryPageSize)

		filters := parseFilters(q)
		if err := validateSelectors(filters); err != nil {
			writeError(w, logger, http.StatusBadRequest, "%v", err)
			return
		}
		sortState, err := parseSortState(q)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "%v", err)
			return
		}

		records, err := store.ReadAll(r.Context())
		if err != nil {
			logger.Error("Error reading session log: %v", err)
			writeError(w, logger, http.StatusInternalServerError, "Unable to read capture log")
			return
		}

		totalSize, err := images.DirectorySize()
		if err != nil {
			logger.Error("Error getting image directory size: %v", err)
			totalSize = 0
		}

		result := query.GetPage(records, filters, sortState, page, limit)
		writeJSON(w, logger, http.StatusOK, dto.ImagesData{
			RecordsData: recordsData(result, sortState),
			ImagesDir:   images.Dir(),
			Size:        totalSize,
		})
	}
}

// ViewImageHandler serves a single image file specified via the "image" query parameter.
func ViewImageHandler(images *storage.ImageStore, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("image")
		if name == "" {
			writeError(w, logger, http.StatusBadRequest, "Image parameter is required")
			return
		}

		path, err := images.Path(name)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "Invalid image name: %s", name)
			return
		}
		if !images.Exists(name) {
			logger.Warning("Requested image is missing: %s", name)
			writeError(w, logger, http.StatusNotFound, "Image not found: %s", name)
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, path)
	}
}

// DeleteImageHandler removes a capture: first its log record, then its image.
func DeleteImageHandler(store repository.SessionLogStore, images *storage.ImageStore, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			writeError(w, logger, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		filename := r.URL.Query().Get("filename")
		if filename == "" {
			writeError(w, logger, http.StatusBadRequest, "Filename required")
			return
		}
		if _, err := images.Path(filename); err != nil {
			writeError(w, logger, http.StatusBadRequest, "Invalid image name: %s", filename)
			return
		}

		recordErr := store.Remove(r.Context(), filename)
		if recordErr != nil && !errors.Is(recordErr, repository.ErrNotFound) {
			logger.Error("Failed to remove record for %s: %v", filename, recordErr)
			writeError(w, logger, http.StatusInternalServerError, "Unable to update capture log")
			return
		}

		imageErr := images.Delete(filename)
		if imageErr != nil && !errors.Is(imageErr, storage.ErrImageNotFound) {
			logger.Error("Failed to delete file %s: %v", filename, imageErr)
			writeError(w, logger, http.StatusInternalServerError, "Unable to delete image")
			return
		}

		if recordErr != nil && imageErr != nil {
			writeError(w, logger, http.StatusNotFound, "Image not found: %s", filename)
			return
		}
		if imageErr != nil {
			logger.Warning("Record %s had no image on disk", filename)
		}

		logger.Info("Deleted capture: %s", filename)
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "deleted", "filename": filename})
	}
}
