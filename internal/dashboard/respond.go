package dashboard

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse carries a translation key and its text in the caller's language.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError replies with a translated error for key.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, key string) {
	respondJSON(w, status, ErrorResponse{
		Error:   key,
		Message: s.config.Catalog.Translate(s.language(r), key),
	})
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(dst); err != nil {
		return err
	}
	return s.validate.Struct(dst)
}
