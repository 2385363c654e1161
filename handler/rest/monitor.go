package rest

import (
	"net/http"

	"borrowlend/core"
	"borrowlend/handler/render"
	"borrowlend/handler/views"
)

func liquidatableHandler(monitor core.IHealthMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var scan *core.HealthScan
		if monitor != nil {
			scan = monitor.Latest()
		}

		render.JSON(w, views.HealthScanView(scan))
	}
}
