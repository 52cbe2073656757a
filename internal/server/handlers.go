package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nao1215/webinfo/internal/codec"
	"github.com/nao1215/webinfo/internal/digest"
	"github.com/nao1215/webinfo/internal/input"
	"github.com/nao1215/webinfo/internal/ipinfo"
	"github.com/nao1215/webinfo/internal/jsonfmt"
	"github.com/nao1215/webinfo/internal/model"
)

// outputResponse is the body of a successful tool call.
type outputResponse struct {
	Output any `json:"output"`
}

// errorResponse is the body of a failed tool call. Position fields are
// set when the failure points at a place in the input.
type errorResponse struct {
	Error  string `json:"error"`
	Offset *int   `json:"offset,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func newErrorResponse(err error) errorResponse {
	resp := errorResponse{Error: err.Error()}

	var decodeErr *codec.DecodeError
	var parseErr *jsonfmt.ParseError
	switch {
	case errors.As(err, &decodeErr):
		if decodeErr.Offset >= 0 {
			offset := decodeErr.Offset
			resp.Offset = &offset
		}
	case errors.As(err, &parseErr):
		offset := parseErr.Offset
		resp.Offset = &offset
		resp.Line = parseErr.Line
		resp.Column = parseErr.Column
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIP resolves the caller and answers with the lookup response, its
// missing record fields back-filled. It answers 200 with the fallback record
// when the lookup fails.
func (s *Server) handleIP(w http.ResponseWriter, r *http.Request) {
	res := s.resolver.ResolveRequest(r.Context(), ipinfo.MetadataFromHeader(r.Header))
	s.metrics.observeLookup(res.Source)
	s.writeJSON(w, http.StatusOK, res.Info.Map())
}

func (s *Server) handleURLEncode(w http.ResponseWriter, r *http.Request) {
	s.transform(w, r, model.ToolURLEncode, func(text string) (any, error) {
		return codec.PercentEncode(text), nil
	})
}

func (s *Server) handleURLDecode(w http.ResponseWriter, r *http.Request) {
	s.transform(w, r, model.ToolURLDecode, func(text string) (any, error) {
		return codec.PercentDecode(text)
	})
}

func (s *Server) handleBase64Encode(w http.ResponseWriter, r *http.Request) {
	variant, err := base64Variant(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.transform(w, r, model.ToolBase64Encode, func(text string) (any, error) {
		return codec.EncodeBase64(text, variant), nil
	})
}

func (s *Server) handleBase64Decode(w http.ResponseWriter, r *http.Request) {
	variant, err := base64Variant(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.transform(w, r, model.ToolBase64Decode, func(text string) (any, error) {
		return codec.DecodeBase64(text, variant)
	})
}

func (s *Server) handleJSONFormat(w http.ResponseWriter, r *http.Request) {
	mode, err := jsonfmt.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	tool := model.ToolJSONFormat
	if mode == jsonfmt.Minify {
		tool = model.ToolJSONMinify
	}
	s.transform(w, r, tool, func(text string) (any, error) {
		return jsonfmt.Format(text, mode)
	})
}

func (s *Server) handleJSONQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	path := query.Get("path")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("missing path parameter"))
		return
	}
	mode, err := jsonfmt.ParseMode(query.Get("mode"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.transform(w, r, model.ToolJSONQuery, func(text string) (any, error) {
		return jsonfmt.Query(text, path, mode)
	})
}

// handleHash answers {"output": {"sha1": "...", ...}}. ?algo selects a
// comma-separated subset; the default is the four SHA digests.
func (s *Server) handleHash(w http.ResponseWriter, r *http.Request) {
	algorithms, err := parseAlgorithms(r.URL.Query().Get("algo"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.transform(w, r, model.ToolHash, func(text string) (any, error) {
		return digest.Compute(text, algorithms...)
	})
}

// transform reads the request body, applies fn and writes the result.
// Transformation failures are client errors.
func (s *Server) transform(w http.ResponseWriter, r *http.Request, tool model.Tool, fn func(string) (any, error)) {
	text, err := input.Read(r.Body, s.maxBodySize)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, input.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.metrics.observeTool(tool, err)
		s.writeError(w, status, err)
		return
	}

	out, err := fn(text)
	s.metrics.observeTool(tool, err)
	if err != nil {
		s.logger.Debug("tool failed",
			"tool", string(tool),
			"request_id", RequestID(r.Context()),
			"error", err,
		)
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outputResponse{Output: out})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, newErrorResponse(err))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func base64Variant(r *http.Request) (codec.Variant, error) {
	switch v := r.URL.Query().Get("variant"); strings.ToLower(v) {
	case "", "std", "standard":
		return codec.Standard, nil
	case "url", "urlsafe":
		return codec.URLSafe, nil
	default:
		return codec.Standard, fmt.Errorf("unknown base64 variant %q", v)
	}
}

func parseAlgorithms(list string) ([]digest.Algorithm, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var algorithms []digest.Algorithm
	for name := range strings.SplitSeq(list, ",") {
		a, err := digest.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algorithms = append(algorithms, a)
	}
	return algorithms, nil
}
