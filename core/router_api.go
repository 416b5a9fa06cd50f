package core

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/encoding/json"
)

type variantSummary struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (r *Router) mountAPI(api chi.Router) {
	api.Get("/pages", r.listPages)
	api.Get("/pages/{variant}", r.getPage)
}

// listPages handles GET /api/pages
func (r *Router) listPages(w http.ResponseWriter, req *http.Request) {
	variants := Variants()
	out := make([]variantSummary, 0, len(variants))
	for _, v := range variants {
		out = append(out, variantSummary{Name: string(v), Path: "/variants/" + string(v)})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"default":  string(r.config.Variant()),
		"variants": out,
	})
}

// getPage handles GET /api/pages/{variant}
func (r *Router) getPage(w http.ResponseWriter, req *http.Request) {
	v, err := ParseVariant(chi.URLParam(req, "variant"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Variant not found")
		return
	}

	page, err := PageFor(v)
	if err != nil {
		if IsNotFoundError(err) {
			respondError(w, http.StatusNotFound, "Variant not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	markVariant(w, v)
	respondJSON(w, http.StatusOK, page)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
