package handlers

import (
	"net/http"

	v1mware "github.com/careline/relay/internal/api/v1/middleware"
	"github.com/careline/relay/internal/services"
	"github.com/careline/relay/pkg/ratelimit"
	"github.com/gorilla/mux"
)

func RegisterV1Routes(router *mux.Router, svcs *services.Services) {
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if redisService := svcs.GetRedisService(); redisService != nil {
		store = &ratelimit.RedisStore{Client: redisService.Client()}
	}

	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()
	v1.Use(v1mware.RequestLogging)

	v1chatRouter := v1.PathPrefix("/chat").Subrouter()
	v1chatRouter.Handle("/ask", v1mware.RateLimit("chat_ask", store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleAsk(svcs.GetRelayService(), w, r)
	}))).Methods("POST")
}
