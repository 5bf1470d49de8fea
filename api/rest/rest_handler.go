package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dkoval/notewave/models"
	"github.com/dkoval/notewave/service"
	"github.com/dkoval/notewave/store"
)

type Handler struct {
	Service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{Service: svc}
}

type loginRequest struct {
	Provider string `json:"provider"`
	Code     string `json:"code"`
}

type loginResponse struct {
	Username string `json:"username"`
	Id       string `json:"id"`
	Provider string `json:"provider"`
	Token    string `json:"token"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.Service.Login(r.Context(), req.Provider, req.Code)
	if err != nil {
		log.Printf("Login failed: %v", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	resp := loginResponse{
		Username: user.Username,
		Id:       user.Id,
		Provider: user.Provider,
		Token:    token,
	}
	h.sendResponse(w, resp)
}

type getUserResponse struct {
	Username string `json:"username"`
	Id       string `json:"id"`
	Provider string `json:"provider"`
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	resp := getUserResponse{
		Username: user.Username,
		Id:       user.Id,
		Provider: user.Provider,
	}
	h.sendResponse(w, resp)
}

type syncResponse struct {
	Success bool `json:"success"`
}

// HandlePages serves the /pages collection: listing and bulk sync.
func (h *Handler) HandlePages(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pages, err := h.Service.ListPages(r.Context(), user.Id)
	if err != nil {
		log.Printf("List pages failed: %v", err)
		http.Error(w, "failed to list pages", http.StatusInternalServerError)
		return
	}

	h.sendResponse(w, pages)
}

// HandlePage serves /pages/{id} and its subresources:
//
//	GET    /pages/{id}         page detail
//	DELETE /pages/{id}         delete page
//	POST   /pages/sync         bulk sync (async, via queue)
//	POST   /pages/{id}/sync    single-page sync
//	POST   /pages/{id}/analyze run text analysis
//	GET    /pages/{id}/audio   synthesized narration
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/pages"), "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "page id required", http.StatusBadRequest)
		return
	}

	if len(parts) == 1 && parts[0] == "sync" {
		h.handleBulkSync(w, r, user)
		return
	}

	pageId := parts[0]
	switch {
	case len(parts) == 1:
		h.handlePageDetail(w, r, user, pageId)
	case len(parts) == 2 && parts[1] == "sync":
		h.handlePageSync(w, r, user, pageId)
	case len(parts) == 2 && parts[1] == "analyze":
		h.handlePageAnalyze(w, r, user, pageId)
	case len(parts) == 2 && parts[1] == "audio":
		h.handlePageAudio(w, r, user, pageId)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handlePageDetail(w http.ResponseWriter, r *http.Request, user models.User, pageId string) {
	switch r.Method {
	case http.MethodGet:
		page, err := h.Service.GetPage(r.Context(), pageId, user.Id)
		if err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				http.Error(w, "page not found", http.StatusNotFound)
				return
			}
			log.Printf("Get page %s failed: %v", pageId, err)
			http.Error(w, "failed to get page", http.StatusInternalServerError)
			return
		}
		h.sendResponse(w, page)

	case http.MethodDelete:
		if err := h.Service.DeletePage(r.Context(), pageId, user.Id); err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				http.Error(w, "page not found", http.StatusNotFound)
				return
			}
			log.Printf("Delete page %s failed: %v", pageId, err)
			http.Error(w, "failed to delete page", http.StatusInternalServerError)
			return
		}
		h.sendResponse(w, syncResponse{Success: true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handlePageSync(w http.ResponseWriter, r *http.Request, user models.User, pageId string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ok := h.Service.SyncPage(r.Context(), pageId, user.Id)
	if !ok {
		http.Error(w, "sync failed", http.StatusBadGateway)
		return
	}
	h.sendResponse(w, syncResponse{Success: true})
}

func (h *Handler) handleBulkSync(w http.ResponseWriter, r *http.Request, user models.User) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.Service.RequestBulkSync(r.Context(), user.Id); err != nil {
		log.Printf("Bulk sync request failed: %v", err)
		http.Error(w, "failed to request sync", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(syncResponse{Success: true}); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

type analyzeResponse struct {
	AnalysisText string `json:"analysisText"`
}

func (h *Handler) handlePageAnalyze(w http.ResponseWriter, r *http.Request, user models.User, pageId string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	analysisText, err := h.Service.AnalyzePage(r.Context(), pageId, user.Id)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}
		log.Printf("Analyze page %s failed: %v", pageId, err)
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	h.sendResponse(w, analyzeResponse{AnalysisText: analysisText})
}

func (h *Handler) handlePageAudio(w http.ResponseWriter, r *http.Request, user models.User, pageId string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	audio, err := h.Service.NarratePage(r.Context(), pageId, user.Id)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}
		log.Printf("Narrate page %s failed: %v", pageId, err)
		http.Error(w, "narration failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	if _, err := w.Write(audio); err != nil {
		log.Printf("Failed to write audio response: %v", err)
	}
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	token := h.getTokenFromAuthHeader(r)
	user, err := h.Service.ResolveOwner(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return models.User{}, false
	}
	return user, true
}

func (h *Handler) sendResponse(w http.ResponseWriter, resp any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) getTokenFromAuthHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, prefix)
}
