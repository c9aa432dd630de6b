package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	api "landedcost/pkg/contracts/api/v1"
)

// Success messages
const (
	MsgFileProcessed     = "file processed successfully"
	MsgProductsProcessed = "products processed successfully"
	MsgCostsCalculated   = "cost calculation completed successfully"
	MsgSuccess           = "success"
	MsgHealthy           = "API is running"
)

func respond(w http.ResponseWriter, r *http.Request, now time.Time, message string, data any) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.NewSuccess(message, data, now.UTC()))
}
