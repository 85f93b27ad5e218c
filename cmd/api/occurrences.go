package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
)

func (app *Application) occurrencesRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("GET %s/occurrences", prefix),
		app.getOccurrencesHandler,
	)
	mux.HandleFunc(
		fmt.Sprintf("POST %s/materialize", prefix),
		app.materializeHandler,
	)
	mux.HandleFunc("GET /feed.ics", app.feedHandler)
}

func (app *Application) getOccurrencesHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	from, to, err := rangeQueryParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	occurrences, err := app.Services.Occurrences.GetAllInRange(
		r.Context(),
		from,
		to,
	)
	if err != nil {
		panic(err)
	}

	writeJSON(w, http.StatusOK, occurrences)
}

// materializeHandler is the on-demand trigger for the rolling-window pass,
// the same pass the periodic job runs.
func (app *Application) materializeHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	monthsAhead, err := monthsQueryParam(r, app.config.MonthsAhead)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := app.Services.Materializer.MaterializeRollingWindow(
		r.Context(),
		monthsAhead,
	)
	if err != nil {
		// partial results are still reported; the failures are joined into
		// one error and already logged per series
		http.Error(
			w,
			fmt.Sprintf(
				"materialized with failures (%d inserted, %d skipped): %s",
				result.Inserted,
				result.Skipped,
				err,
			),
			http.StatusInternalServerError,
		)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (app *Application) feedHandler(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeQueryParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cal, err := app.Services.Feed.UpcomingCalendar(r.Context(), from, to)
	if err != nil {
		panic(err)
	}

	w.Header().Set("Content-Type", "text/calendar")
	_, err = w.Write([]byte(cal.Serialize()))
	if err != nil {
		app.logger.Error("failed to write calendar feed", logging.ErrAttr(err))
	}
}

// rangeQueryParams reads the from/to date bounds of a browse request,
// defaulting to the next month.
func rangeQueryParams(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now
	to := now.AddDate(0, 1, 0)

	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			return time.Time{}, time.Time{},
				errors.New("from must be a YYYY-MM-DD date")
		}
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			return time.Time{}, time.Time{},
				errors.New("to must be a YYYY-MM-DD date")
		}
		// make the bound inclusive of the whole day
		to = to.AddDate(0, 0, 1).Add(-time.Second)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to must not precede from")
	}

	return from, to, nil
}
