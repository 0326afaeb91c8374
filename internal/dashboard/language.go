package dashboard

import (
	"net/http"

	"github.com/ayusman/gazectl/internal/store"
)

type languageRequest struct {
	Language string `json:"language" validate:"required"`
}

// TranslationsResponse is the body of /api/translations.
type TranslationsResponse struct {
	Language     string            `json:"language"`
	Languages    []string          `json:"languages"`
	Translations map[string]string `json:"translations"`
}

// language resolves the display language of a request: the logged-in user's
// preference, then the device setting, then the configured default.
func (s *Server) language(r *http.Request) string {
	if user := s.sessionUser(r); user != nil && s.config.Catalog.Has(user.Language) {
		return user.Language
	}
	return s.deviceLanguage()
}

func (s *Server) deviceLanguage() string {
	lang, err := s.config.Store.Settings().GetOr(store.SettingLanguage, s.config.DefaultLanguage)
	if err != nil {
		s.logger.Error().Err(err).Msg("load device language")
		return s.config.DefaultLanguage
	}
	if !s.config.Catalog.Has(lang) {
		return s.config.DefaultLanguage
	}
	return lang
}

func (s *Server) rememberLanguage(lang string) {
	if err := s.config.Store.Settings().Set(store.SettingLanguage, lang); err != nil {
		s.logger.Error().Err(err).Msg("save device language")
	}
}

// handleTranslations handles GET /api/translations?lang=. Without lang the
// request's resolved language is used. Unknown languages get an empty table.
func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = s.language(r)
	}

	table := s.config.Catalog.Table(lang)
	if table == nil {
		table = map[string]string{}
	}
	respondJSON(w, http.StatusOK, TranslationsResponse{
		Language:     lang,
		Languages:    s.config.Catalog.Languages(),
		Translations: table,
	})
}

// handleSetLanguage handles PUT /api/profile/language.
func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req languageRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "fill_fields")
		return
	}
	if !s.config.Catalog.Has(req.Language) {
		s.respondError(w, r, http.StatusBadRequest, "invalid_language")
		return
	}

	if err := s.config.Store.Users().SetLanguage(user.ID, req.Language); err != nil {
		s.logger.Error().Err(err).Msg("save user language")
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "failed to save language"})
		return
	}
	user.Language = req.Language
	s.rememberLanguage(req.Language)

	respondJSON(w, http.StatusOK, s.profile(user))
}
