package rest

import (
	"net/http"

	"borrowlend/core"
	"borrowlend/handler/param"
	"borrowlend/handler/render"

	"github.com/spf13/cast"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 500
)

// eventsHandler events with id > offset, ascending
func eventsHandler(events core.LedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Offset string `json:"offset"`
			Limit  string `json:"limit"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		limit := cast.ToInt(params.Limit)
		if limit <= 0 {
			limit = defaultEventLimit
		} else if limit > maxEventLimit {
			limit = maxEventLimit
		}

		offset := cast.ToInt64(params.Offset)

		list, err := events.ListEvents(r.Context(), offset, limit)
		if err != nil {
			render.Error(w, err)
			return
		}

		next := offset
		if len(list) > 0 {
			next = list[len(list)-1].ID
		}

		render.JSON(w, render.H{
			"events":      list,
			"next_offset": next,
		})
	}
}
