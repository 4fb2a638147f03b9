// marketbot/routes/settings.go
package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketbot/marketbot/config"
	"marketbot/marketbot/controllers"
	"marketbot/marketbot/middlewares"
	"marketbot/marketbot/utils/types"
)

func SettingsRoutes(ctrl *controllers.SettingsController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ctrl.Get(r.Context()))
	})

	r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
		var req types.SettingsUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ctrl.Update(r.Context(), req); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(ctrl.Get(r.Context()))
	})

	return r
}
