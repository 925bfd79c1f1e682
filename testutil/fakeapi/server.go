// Package fakeapi 提供测试用的收藏接口服务，行为与线上接口一致。
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shortlist/model"
)

// Server 内存版收藏接口
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	listings    []*model.Studio
	shortlisted []string
	reject      map[string]string // method -> error 信息
	calls       map[string]int
}

// New 启动服务，调用方负责 Close
func New(listings ...*model.Studio) *Server {
	s := &Server{
		listings: listings,
		reject:   make(map[string]string),
		calls:    make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/listings", s.getListings)
		r.Get("/shortlist", s.getShortlist)
		r.Post("/shortlist/{id}", s.addShortlist)
		r.Delete("/shortlist/{id}", s.removeShortlist)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, model.APIResponse{Error: "Endpoint not found"})
	})

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL 接口基础地址
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Reject 让指定方法的请求返回 success=false
func (s *Server) Reject(method, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject[method] = message
}

// Accept 取消 Reject
func (s *Server) Accept(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reject, method)
}

// SetShortlisted 直接改写服务端收藏列表
func (s *Server) SetShortlisted(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shortlisted = append([]string(nil), ids...)
}

// Shortlisted 服务端当前的收藏列表
func (s *Server) Shortlisted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.shortlisted...)
}

// Calls 某个方法被调用的次数
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *Server) rejected(w http.ResponseWriter, method string) bool {
	s.calls[method]++
	msg, ok := s.reject[method]
	if ok {
		writeJSON(w, http.StatusInternalServerError, model.APIResponse{Error: msg})
	}
	return ok
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "fake shortlist api",
	})
}

func (s *Server) getListings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeData(w, http.StatusOK, s.listings, len(s.listings))
}

func (s *Server) getShortlist(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejected(w, r.Method) {
		return
	}

	out := []*model.Studio{}
	for _, l := range s.listings {
		if s.indexOf(l.ID) >= 0 {
			out = append(out, l)
		}
	}
	writeData(w, http.StatusOK, out, len(out))
}

func (s *Server) addShortlist(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejected(w, r.Method) {
		return
	}

	id := chi.URLParam(r, "id")
	if s.listing(id) == nil {
		writeJSON(w, http.StatusNotFound, model.APIResponse{Error: "Listing not found"})
		return
	}
	msg := "Already in shortlist"
	if s.indexOf(id) < 0 {
		s.shortlisted = append(s.shortlisted, id)
		msg = "Added to shortlist"
	}
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Message: msg})
}

func (s *Server) removeShortlist(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejected(w, r.Method) {
		return
	}

	id := chi.URLParam(r, "id")
	msg := "Not in shortlist"
	if i := s.indexOf(id); i >= 0 {
		s.shortlisted = append(s.shortlisted[:i], s.shortlisted[i+1:]...)
		msg = "Removed from shortlist"
	}
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Message: msg})
}

func (s *Server) listing(id string) *model.Studio {
	for _, l := range s.listings {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (s *Server) indexOf(id string) int {
	for i, v := range s.shortlisted {
		if v == id {
			return i
		}
	}
	return -1
}

func writeData(w http.ResponseWriter, status int, data interface{}, count int) {
	raw, err := json.Marshal(data)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, model.APIResponse{Error: err.Error()})
		return
	}
	writeJSON(w, status, model.APIResponse{Success: true, Data: raw, Count: count})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
