package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"camstation/internal/dto"
	"camstation/internal/logger"
	"camstation/internal/model"
	"camstation/internal/service/query"
)

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// writeError sends {"error": message}.
func writeError(w http.ResponseWriter, logger *logger.Logger, status int, format string, v ...interface{}) {
	writeJSON(w, logger, status, dto.ErrorResponse{Error: fmt.Sprintf(format, v...)})
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// parseFilters reads the age, gender and date selectors.
func parseFilters(q url.Values) dto.RecordFilters {
	return dto.RecordFilters{
		Age:    q.Get("age"),
		Gender: q.Get("gender"),
		Date:   q.Get("date"),
	}
}

// parseSortState reads sort/order and applies an optional toggle, so a table
// header click can send back the state it was rendered with.
func parseSortState(q url.Values) (query.SortState, error) {
	field, ok := query.ParseSortField(q.Get("sort"))
	if !ok {
		return query.SortState{}, fmt.Errorf("unknown sort field %q", q.Get("sort"))
	}
	state := query.SortState{
		Field:     field,
		Ascending: !strings.EqualFold(q.Get("order"), "desc"),
	}

	if raw := q.Get("toggle"); raw != "" {
		toggle, ok := query.ParseSortField(raw)
		if !ok || toggle == query.FieldNone {
			return query.SortState{}, fmt.Errorf("unknown sort field %q", raw)
		}
		state.Toggle(toggle)
	}
	return state, nil
}

// validateSelectors rejects selector values outside the closed enumerations.
func validateSelectors(f dto.RecordFilters) error {
	return model.ValidateSelectors(f.Age, f.Gender, f.Date)
}

// recordsData converts a query page into the response payload.
func recordsData(page query.Page, sort query.SortState) dto.RecordsData {
	infos := make([]dto.RecordInfo, 0, len(page.Records))
	for _, rec := range page.Records {
		infos = append(infos, dto.NewRecordInfo(rec))
	}
	return dto.RecordsData{
		Records:     infos,
		Length:      page.Total,
		TotalPages:  page.TotalPages,
		CurrentPage: page.Page,
		Limit:       page.PageSize,
		SortField:   string(sort.Field),
		Ascending:   sort.Ascending,
	}
}
