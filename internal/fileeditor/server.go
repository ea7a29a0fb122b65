// Package fileeditor is a small HTTP service for browsing and editing the
// files under one confined root directory: a peripheral companion to the
// generator, not part of its batch pipeline.
package fileeditor

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/confctl/confctl/internal/schema"
)

// Server serves the file-editor API rooted at Root. Root is resolved to an
// absolute path at construction time; every request path is confined
// beneath it.
type Server struct {
	Root string
}

// New returns a Server rooted at root, creating the directory if it does
// not already exist.
func New(root string) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}
	return &Server{Root: abs}, nil
}

// Handler returns the routed http.Handler for the file-editor API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/files", s.handleFiles)
	mux.HandleFunc("/api/files/folder", s.handleCreateFolder)
	mux.HandleFunc("/api/files/file", s.handleCreateFile)
	mux.HandleFunc("/api/files/rename", s.handleRename)
	mux.HandleFunc("/api/files/content", s.handleContent)
	return mux
}

// fileInfo is one entry in a directory listing.
type fileInfo struct {
	Name  string   `json:"name"`
	IsDir bool     `json:"is_dir"`
	Path  string   `json:"path"`
	Size  *int64   `json:"size,omitempty"`
	MTime *float64 `json:"mtime,omitempty"`
}

// safePath resolves a request-supplied relative path beneath s.Root,
// rejecting anything that escapes it after resolution.
func (s *Server) safePath(requested string) (string, error) {
	requested = strings.TrimPrefix(requested, "/")
	full := filepath.Clean(filepath.Join(s.Root, requested))
	if full != s.Root && !strings.HasPrefix(full, s.Root+string(filepath.Separator)) {
		return "", errAccessDenied
	}
	return full, nil
}

var errAccessDenied = fmt.Errorf("access denied: path outside root directory")

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	reqPath := r.URL.Query().Get("path")
	if reqPath == "" {
		reqPath = "/"
	}

	full, err := s.safePath(reqPath)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	info, err := os.Stat(full)
	if err != nil {
		writeError(w, http.StatusNotFound, "path not found")
		return
	}
	if !info.IsDir() {
		writeError(w, http.StatusBadRequest, "path is not a directory")
		return
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]fileInfo, 0, len(entries))
	for _, e := range entries {
		rel, err := filepath.Rel(s.Root, filepath.Join(full, e.Name()))
		if err != nil {
			continue
		}
		st, err := e.Info()
		if err != nil {
			continue
		}
		item := fileInfo{
			Name:  e.Name(),
			IsDir: e.IsDir(),
			Path:  "/" + filepath.ToSlash(rel),
		}
		if !e.IsDir() {
			size := st.Size()
			item.Size = &size
		}
		mtime := float64(st.ModTime().Unix())
		item.MTime = &mtime
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].IsDir != items[j].IsDir {
			return items[i].IsDir
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	writeJSON(w, http.StatusOK, items)
}

type createFolderRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target := strings.TrimSuffix(req.Path, "/") + "/" + req.Name
	full, err := s.safePath(target)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	if _, err := os.Stat(full); err == nil {
		writeError(w, http.StatusConflict, "folder already exists")
		return
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "folder created successfully"})
}

type createFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// handleCreateFile writes content to path, running the schema validator
// first when the target is a *.yml.json or *.ini.json schema document: an
// invalid schema is rejected rather than written.
func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req createFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	full, err := s.safePath(req.Path)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	if _, err := os.Stat(filepath.Dir(full)); err != nil {
		writeError(w, http.StatusNotFound, "parent directory does not exist")
		return
	}

	if strings.HasSuffix(full, ".yml.json") || strings.HasSuffix(full, ".ini.json") {
		if errs := validateSchemaContent([]byte(req.Content), full); len(errs) > 0 {
			writeError(w, http.StatusUnprocessableEntity, strings.Join(errs, "; "))
			return
		}
	}

	if err := os.WriteFile(full, []byte(req.Content), 0o644); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "file saved successfully"})
}

func validateSchemaContent(content []byte, path string) []string {
	tmp, err := os.CreateTemp("", "confctl-fileeditor-*.json")
	if err != nil {
		return []string{fmt.Sprintf("validating schema: %v", err)}
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(content); err != nil {
		return []string{fmt.Sprintf("validating schema: %v", err)}
	}

	nodes, err := schema.LoadNodes(tmp.Name())
	if err != nil {
		return []string{fmt.Sprintf("invalid schema document: %v", err)}
	}
	return schema.ValidateFile(nodes, path)
}

type renameRequest struct {
	Path    string `json:"path"`
	NewName string `json:"new_name"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	src, err := s.safePath(req.Path)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	if _, err := os.Stat(src); err != nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	dstRel := filepath.Join(filepath.Dir(req.Path), req.NewName)
	dst, err := s.safePath(dstRel)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	if _, err := os.Stat(dst); err == nil {
		writeError(w, http.StatusConflict, "target already exists")
		return
	}

	if err := os.Rename(src, dst); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item renamed successfully"})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.readContent(w, r)
	case http.MethodDelete:
		s.deleteItem(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) readContent(w http.ResponseWriter, r *http.Request) {
	reqPath := r.URL.Query().Get("path")
	full, err := s.safePath(reqPath)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	info, err := os.Stat(full)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	if info.IsDir() {
		writeError(w, http.StatusBadRequest, "path is a directory")
		return
	}

	content, err := os.ReadFile(full)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"content": string(content)})
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	reqPath := r.URL.Query().Get("path")
	if reqPath == "" || reqPath == "/" {
		writeError(w, http.StatusBadRequest, "cannot delete root directory")
		return
	}

	full, err := s.safePath(reqPath)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	if _, err := os.Stat(full); err != nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := os.RemoveAll(full); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
