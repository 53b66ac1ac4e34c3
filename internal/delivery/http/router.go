package http

import (
	"net/http"

	"clinic-booking-core/internal/delivery/http/handler"
	"clinic-booking-core/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router         *mux.Router
	bookingHandler *handler.BookingHandler
	healthHandler  *handler.HealthHandler
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	requestLogger  *middleware.RequestLogger
}

func NewRouter(
	bookingHandler *handler.BookingHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	requestLogger *middleware.RequestLogger,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		bookingHandler: bookingHandler,
		healthHandler:  healthHandler,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		requestLogger:  requestLogger,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health checks (public)
	api.HandleFunc("/health", r.healthHandler.Liveness).Methods(http.MethodGet)
	api.HandleFunc("/health/ready", r.healthHandler.Readiness).Methods(http.MethodGet)

	// Booking routes (patient)
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(r.authMiddleware.Authenticate)
	bookings.HandleFunc("", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	bookings.HandleFunc("/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}/cancel", r.bookingHandler.CancelBooking).Methods(http.MethodPut)

	r.router.Use(middleware.RequestID)
	r.router.Use(r.requestLogger.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}
