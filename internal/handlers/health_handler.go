package handlers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"
)

type HealthHandler struct {
	DB *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{DB: db}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
	writer.Write([]byte("ok"))
}

// ReadyzHandler reports ready only while the database answers a ping.
func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	sqlDB, err := handler.DB.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		writer.WriteHeader(http.StatusServiceUnavailable)
		writer.Write([]byte("database unavailable"))
		return
	}
	writer.WriteHeader(http.StatusOK)
	writer.Write([]byte("ready"))
}
