package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/heritage/pkg/blob"
	"github.com/matzehuels/heritage/pkg/buildinfo"
	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/genealogy"
	"github.com/matzehuels/heritage/pkg/pipeline"
	"github.com/matzehuels/heritage/pkg/render/view"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"members": s.records.Len(),
	})
}

type memberSummary struct {
	SerNo int    `json:"serNo"`
	Name  string `json:"name"`
	Vansh string `json:"vansh,omitempty"`
}

func (s *Server) handleRoots(w http.ResponseWriter, r *http.Request) {
	g := genealogy.New(s.records, genealogy.WithLogger(s.log))
	roots := g.Roots()
	out := make([]memberSummary, 0, len(roots))
	for _, m := range roots {
		out = append(out, memberSummary{SerNo: m.SerNo, Name: m.Name, Vansh: m.Vansh})
	}
	writeJSON(w, http.StatusOK, map[string]any{"roots": out})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	findings := s.records.Validate()
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{"findings": out})
}

type rowJSON struct {
	SerNo       int    `json:"serNo"`
	Name        string `json:"name"`
	Depth       int    `json:"depth"`
	ParentSerNo int    `json:"parentSerNo,omitempty"`
	HasChildren bool   `json:"hasChildren"`
	Expanded    bool   `json:"expanded"`
}

// handleTree returns the projection of the tree. Members listed in the
// comma-separated collapse parameter have their subtrees hidden.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	root, ok := s.intParam(w, r, "root")
	if !ok {
		return
	}
	collapse, err := parseIDList(r.URL.Query().Get("collapse"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tree, err := s.runner.Build(r.Context(), s.records, root)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	model := view.NewModel()
	for _, id := range collapse {
		model.SetExpanded(id, false)
	}
	rows := model.Project(tree)
	out := make([]rowJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowJSON{
			SerNo:       row.SerNo(),
			Name:        row.Node.Name,
			Depth:       row.Depth,
			ParentSerNo: row.ParentSerNo,
			HasChildren: row.HasChildren,
			Expanded:    row.Expanded,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"root":     root,
		"rows":     out,
		"stats":    tree.Stats(),
		"warnings": tree.Warnings,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	root, ok := s.intParam(w, r, "root")
	if !ok {
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "text":
		text, _, err := s.runner.Report(r.Context(), s.records, root)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeBody(w, "text/plain; charset=utf-8", []byte(text))
	case "docx":
		data, err := s.runner.ReportDOCX(r.Context(), s.records, root)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="report-`+strconv.Itoa(root)+`.docx"`)
		writeBody(w, blob.ContentType("docx"), data)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unknown report format %q", r.URL.Query().Get("format")))
	}
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, pipeline.FormatJSON)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, chi.URLParam(r, "format"))
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, format string) {
	root, ok := s.intParam(w, r, "root")
	if !ok {
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.defaults
	opts.Root = root
	opts.Formats = []string{format}
	opts.Refresh = r.URL.Query().Get("refresh") == "true"
	if a := r.URL.Query().Get("adapter"); a != "" {
		opts.Adapter = a
	}

	res, err := s.runner.Export(r.Context(), s.records, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Heritage-Pages", strconv.Itoa(res.Stats.PageCount))
	w.Header().Set("X-Heritage-Format", res.Layout.Format.Name)
	if format != pipeline.FormatJSON {
		w.Header().Set("Content-Disposition", `inline; filename="tree-`+strconv.Itoa(root)+`.`+format+`"`)
	}
	writeBody(w, blob.ContentType(format), res.Artifacts[format])
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	serNo, ok := s.intParam(w, r, "serNo")
	if !ok {
		return
	}
	html := r.URL.Query().Get("format") == "html"
	data, err := s.runner.Profile(s.records, serNo, html)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ct := "text/plain; charset=utf-8"
	if html {
		ct = "text/html; charset=utf-8"
	}
	writeBody(w, ct, data)
}

// intParam parses a positive integer URL parameter, writing a 400 on failure.
func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err == nil {
		err = errors.ValidateSerNo(n)
	} else {
		err = errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, raw)
	}
	if err != nil {
		s.writeError(w, r, err)
		return 0, false
	}
	return n, true
}

func parseIDList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid member id %q", part)
		}
		ids = append(ids, n)
	}
	return ids, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeBody(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
