// marketbot/routes/bot.go
package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"marketbot/marketbot/bot"
	"marketbot/marketbot/config"
	"marketbot/marketbot/controllers"
	"marketbot/marketbot/middlewares"
	"marketbot/marketbot/utils/types"
)

func BotRoutes(ctrl *controllers.BotController, hub *ProgressHub, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /bot/cycle : start a bulk run over the top chats
		gr.Post("/cycle", func(w http.ResponseWriter, r *http.Request) {
			var req types.CycleRequest
			if r.Body != nil {
				json.NewDecoder(r.Body).Decode(&req)
			}
			if err := ctrl.StartCycle(r.Context(), req.Chats); err != nil {
				if err == bot.ErrRunInProgress {
					http.Error(w, err.Error(), http.StatusConflict)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]bool{"started": true})
		})

		// POST /bot/unread : start a run over every unread chat
		gr.Post("/unread", func(w http.ResponseWriter, r *http.Request) {
			if err := ctrl.StartUnread(r.Context()); err != nil {
				if err == bot.ErrRunInProgress {
					http.Error(w, err.Error(), http.StatusConflict)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]bool{"started": true})
		})

		// POST /bot/process-one : claim and answer exactly one unread chat
		gr.Post("/process-one", func(w http.ResponseWriter, r *http.Request) {
			processed, title, err := ctrl.ProcessOne(r.Context())
			if err != nil {
				if err == bot.ErrRunInProgress {
					http.Error(w, err.Error(), http.StatusConflict)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"processed":  processed,
				"chat_title": title,
			})
		})

		// POST /bot/cancel : cooperative stop of the active run
		gr.Post("/cancel", func(w http.ResponseWriter, r *http.Request) {
			ctrl.CancelRun()
			json.NewEncoder(w).Encode(map[string]bool{"cancelled": true})
		})

		// POST /bot/toggle : flip the auto-responder on or off
		gr.Post("/toggle", func(w http.ResponseWriter, r *http.Request) {
			active, err := ctrl.ToggleAutoResponder(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(map[string]bool{"is_active": active})
		})

		gr.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			status, err := ctrl.Status(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(status)
		})

		gr.Get("/replies", func(w http.ResponseWriter, r *http.Request) {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			entries, err := ctrl.RecentReplies(r.Context(), limit)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(entries)
		})
	})

	// GET /bot/ws : live progress stream
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		if cfg.JWTSecret != "" {
			tokenStr := r.URL.Query().Get("token")
			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
				conn.Close(websocket.StatusPolicyViolation, "invalid token")
				return
			}
		}

		sub := hub.subscribe()
		defer hub.unsubscribe(sub)

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case payload := <-sub:
				if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
					return
				}
			}
		}
	})
	return r
}
