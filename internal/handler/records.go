package handler

import (
	"net/http"

	"camstation/internal/config"
	"camstation/internal/dto"
	"camstation/internal/logger"
	"camstation/internal/repository"
	"camstation/internal/service/query"
	"camstation/internal/service/stats"
)

// GetRecordsHandler returns one page of the capture log, filtered and sorted
// as requested.
func GetRecordsHandler(store repository.SessionLogStore, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), cfg.PageSize)

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

		result := query.GetPage(records, filters, sortState, page, limit)
		writeJSON(w, logger, http.StatusOK, recordsData(result, sortState))
	}
}

// GetCountsHandler returns the age and gender distributions, optionally for one date.
func GetCountsHandler(store repository.SessionLogStore, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if err := validateSelectors(dto.RecordFilters{Date: date}); err != nil {
			writeError(w, logger, http.StatusBadRequest, "%v", err)
			return
		}

		records, err := store.ReadAll(r.Context())
		if err != nil {
			logger.Error("Error reading session log: %v", err)
			writeError(w, logger, http.StatusInternalServerError, "Unable to read capture log")
			return
		}

		writeJSON(w, logger, http.StatusOK, stats.Counts(records, date).CountsData())
	}
}

// GetDatesHandler returns the distinct capture dates for the date picker.
func GetDatesHandler(store repository.SessionLogStore, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ReadAll(r.Context())
		if err != nil {
			logger.Error("Error reading session log: %v", err)
			writeError(w, logger, http.StatusInternalServerError, "Unable to read capture log")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string][]string{
			"dates": stats.UniqueDates(records),
		})
	}
}
