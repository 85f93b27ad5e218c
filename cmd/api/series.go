package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"github.com/xdoubleu/essentia/v2/pkg/parse"
	"regioevents.dev/internal/dtos"
)

func (app *Application) seriesRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("POST %s/series", prefix),
		app.createSeriesHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("GET %s/series/{id}", prefix),
		app.getSeriesHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("POST %s/series/{id}/approve", prefix),
		app.approveSeriesHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("POST %s/series/{id}/generate", prefix),
		app.generateSeriesHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("GET %s/series/{id}/feed.ics", prefix),
		app.seriesFeedHandler,
	)
}

func (app *Application) createSeriesHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	var createSeriesDto dtos.CreateSeriesDto

	err := json.NewDecoder(r.Body).Decode(&createSeriesDto)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if ok, errs := createSeriesDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	series, err := app.Services.Series.Create(r.Context(), &createSeriesDto)
	if err != nil {
		panic(err)
	}

	writeJSON(w, http.StatusCreated, series)
}

func (app *Application) getSeriesHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := parse.URLParam[string](r, "id", nil)
	if err != nil {
		panic(err)
	}

	series, err := app.Services.Series.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrResourceNotFound) {
			http.Error(w, "series not found", http.StatusNotFound)
			return
		}
		panic(err)
	}

	writeJSON(w, http.StatusOK, series)
}

func (app *Application) approveSeriesHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := parse.URLParam[string](r, "id", nil)
	if err != nil {
		panic(err)
	}

	result, err := app.Services.Series.Approve(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrResourceNotFound) {
			http.Error(w, "series not found", http.StatusNotFound)
			return
		}
		panic(err)
	}

	writeJSON(w, http.StatusOK, result)
}

func (app *Application) generateSeriesHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := parse.URLParam[string](r, "id", nil)
	if err != nil {
		panic(err)
	}

	monthsAhead, err := monthsQueryParam(r, app.config.MonthsAhead)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := app.Services.Series.Generate(r.Context(), id, monthsAhead)
	if err != nil {
		if errors.Is(err, database.ErrResourceNotFound) {
			http.Error(w, "series not found", http.StatusNotFound)
			return
		}
		panic(err)
	}

	writeJSON(w, http.StatusOK, result)
}

func (app *Application) seriesFeedHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := parse.URLParam[string](r, "id", nil)
	if err != nil {
		panic(err)
	}

	cal, err := app.Services.Feed.SeriesCalendar(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrResourceNotFound) {
			http.Error(w, "series not found", http.StatusNotFound)
			return
		}
		panic(err)
	}

	w.Header().Set("Content-Type", "text/calendar")
	_, err = w.Write([]byte(cal.Serialize()))
	if err != nil {
		app.logger.Error("failed to write series calendar", logging.ErrAttr(err))
	}
}

func monthsQueryParam(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("months")
	if raw == "" {
		return fallback, nil
	}

	months, err := strconv.Atoi(raw)
	if err != nil || months < 1 {
		return 0, errors.New("months must be a positive integer")
	}

	return months, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck //response is already committed
	json.NewEncoder(w).Encode(data)
}
