package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StatusController reports that the backend is up along with the port the
// process was configured to bind.
type StatusController struct {
	ConfiguredPort string
}

type StatusResponse struct {
	Status         string `json:"status"`
	ConfiguredPort string `json:"configured_port"`
}

// Get returns the status response. It always returns a 200.
func (c *StatusController) Get(w http.ResponseWriter, _ *http.Request) {
	data, err := json.MarshalIndent(&StatusResponse{
		Status:         "Backend is running",
		ConfiguredPort: c.ConfiguredPort,
	}, "", "  ")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Error creating status json response: %s", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) // nolint: errcheck
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	data, err := json.MarshalIndent(&struct {
		Error string `json:"error"`
	}{
		Error: msg,
	}, "", "  ")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Error creating error json response: %s", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data) // nolint: errcheck
}
