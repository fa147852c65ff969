package card

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"github.com/jonanatree/securitycard/card/models"
)

// API is the HTTP and websocket gateway to the card service.
type API struct {
	service  *Service
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewAPI(service *Service, hub *Hub, logger *slog.Logger) *API {
	return &API{
		service: service,
		hub:     hub,
		logger:  logger.With(slog.String("component", "api")),
		upgrader: websocket.Upgrader{
			// The demo frontend is served from another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.health)
		r.Post("/auth/login", a.login)
		r.Route("/card", func(r chi.Router) {
			r.Get("/info", a.getCardInfo)
			r.Post("/request", a.requestCard)
			r.Post("/transaction", a.submitTransaction)
			r.Post("/freeze", a.toggleFreeze)
			r.Post("/balance", a.creditBalance)
		})
		r.Get("/account/balance", a.getAccountBalance)
	})
	r.Get("/ws", a.observerStream)
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Security Card API",
		"status":  "running",
	})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := a.service.Login(body.Username, body.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"message": "login successful",
	})
}

func (a *API) getCardInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"card":    a.service.CardInfo(),
	})
}

func (a *API) getAccountBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"balance": a.service.AccountBalance(),
	})
}

func (a *API) requestCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"card_id": a.service.RequestNewCard(),
		"message": "card requested",
	})
}

func (a *API) submitTransaction(w http.ResponseWriter, r *http.Request) {
	req := models.TransactionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.service.SubmitTransaction(req)
	if err != nil {
		if errors.Is(err, ErrSecretMismatch) || errors.Is(err, ErrExpiryMismatch) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		*models.TransactionResult
	}{true, "transaction successful", result})
}

func (a *API) toggleFreeze(w http.ResponseWriter, r *http.Request) {
	active := a.service.ToggleFreeze()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"is_active": active,
	})
}

func (a *API) creditBalance(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	newCardBalance, newAccountBalance, err := a.service.CreditCardBalance(body.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"new_card_balance": newCardBalance,
		"new_main_balance": newAccountBalance,
		"message":          "balance updated",
	})
}

// observerStream upgrades the request to a websocket and registers it with
// the hub. The client never sends meaningful payloads; inbound frames are
// drained and dropped until the connection dies, which unregisters it.
func (a *API) observerStream(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Info("websocket upgrade failed", "err", err)
		return
	}

	a.hub.Register(conn)
	a.logger.Info("observer connected", slog.String("remote", conn.RemoteAddr().String()))

	go func() {
		defer func() {
			a.hub.Unregister(conn)
			conn.Close()
			a.logger.Info("observer disconnected", slog.String("remote", conn.RemoteAddr().String()))
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
