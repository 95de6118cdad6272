// # internal/devserver/exec.go
package devserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	apperrors "tokenbridge/internal/errors"
	"tokenbridge/internal/host"
	"tokenbridge/internal/pathutil"
	"tokenbridge/internal/shared/observability"
)

// ExecuteModule evaluates a data module and returns its exports. JSON files
// export their parsed value as the default export; CUE files export each
// top-level field, so a "default" field becomes the default export.
// TypeScript and JavaScript need a real runtime and are rejected.
func (s *Server) ExecuteModule(ctx context.Context, id string) (host.Exports, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file := s.moduleFile(id)
	if file == "" {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "no module for id: %s", id)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		exports, err := executeJSON(file)
		if err == nil {
			observability.ModuleExecutionsTotal.WithLabelValues("json").Inc()
		}
		return exports, err
	case ".cue":
		exports, err := executeCUE(file)
		if err == nil {
			observability.ModuleExecutionsTotal.WithLabelValues("cue").Inc()
		}
		return exports, err
	case ".ts", ".mts", ".js", ".mjs":
		observability.ModuleExecutionsTotal.WithLabelValues("rejected").Inc()
		err := apperrors.Newf(apperrors.CodeNotSupported,
			"server-side execution of script modules requires an external loader: %s", id)
		return nil, apperrors.AddContext(err, apperrors.CtxModuleID, id)
	default:
		return nil, apperrors.Newf(apperrors.CodeNotSupported, "unknown module kind: %s", id)
	}
}

// moduleFile maps a resolved identifier back to an on-disk path. Accepts the
// absolute ids this server hands out, /@fs ids, and root-relative ids.
func (s *Server) moduleFile(id string) string {
	trimmed := strings.TrimPrefix(id, pathutil.FSPrefix)
	cand := filepath.FromSlash(trimmed)

	if filepath.IsAbs(cand) {
		if fi, err := os.Stat(cand); err == nil && !fi.IsDir() {
			return filepath.Clean(cand)
		}
	}

	rel := strings.TrimPrefix(trimmed, "/")
	cand = filepath.Join(s.root, filepath.FromSlash(rel))
	if fi, err := os.Stat(cand); err == nil && !fi.IsDir() {
		return cand
	}
	return ""
}

func executeJSON(file string) (host.Exports, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		wrapped := apperrors.Wrap(err, apperrors.CodeValidationError, "invalid JSON module")
		return nil, apperrors.AddContext(wrapped, apperrors.CtxPath, file)
	}
	return host.Exports{"default": value}, nil
}

func executeCUE(file string) (host.Exports, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(file))
	if err := value.Err(); err != nil {
		wrapped := apperrors.Wrap(err, apperrors.CodeValidationError, "invalid CUE module")
		return nil, apperrors.AddContext(wrapped, apperrors.CtxPath, file)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		wrapped := apperrors.Wrap(err, apperrors.CodeValidationError, "CUE module is not concrete")
		return nil, apperrors.AddContext(wrapped, apperrors.CtxPath, file)
	}

	var fields map[string]any
	if err := value.Decode(&fields); err != nil {
		wrapped := apperrors.Wrap(err, apperrors.CodeValidationError, "cannot decode CUE module")
		return nil, apperrors.AddContext(wrapped, apperrors.CtxPath, file)
	}
	return host.Exports(fields), nil
}
