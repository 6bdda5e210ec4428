package chi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/hitsource/internal/domain/source/filter"
)

// GetSourceParams holds the query parameters of GET .../_source.
type GetSourceParams struct {
	// Source is either "true", "false" or a list of include patterns.
	Source         *[]string
	SourceIncludes *[]string
	SourceExcludes *[]string
}

// Bind reads the parameters from a query string.
func (p *GetSourceParams) Bind(q url.Values) error {
	if err := runtime.BindQueryParameter("form", false, false, "_source", q, &p.Source); err != nil {
		return fmt.Errorf("invalid format for parameter _source: %w", err)
	}
	if err := runtime.BindQueryParameter("form", false, false, "_source_includes", q, &p.SourceIncludes); err != nil {
		return fmt.Errorf("invalid format for parameter _source_includes: %w", err)
	}
	if err := runtime.BindQueryParameter("form", false, false, "_source_excludes", q, &p.SourceExcludes); err != nil {
		return fmt.Errorf("invalid format for parameter _source_excludes: %w", err)
	}
	return nil
}

// Spec builds the filter spec. The _source endpoint always returns a source,
// so _source=false is rejected.
func (p *GetSourceParams) Spec() (filter.Spec, error) {
	var includes, excludes []string
	if p.Source != nil {
		src := *p.Source
		switch {
		case len(src) == 1 && src[0] == "false":
			return filter.Spec{}, fmt.Errorf("_source=false is not allowed on the _source endpoint")
		case len(src) == 1 && src[0] == "true":
		default:
			includes = append(includes, src...)
		}
	}
	if p.SourceIncludes != nil {
		includes = append(includes, *p.SourceIncludes...)
	}
	if p.SourceExcludes != nil {
		excludes = append(excludes, *p.SourceExcludes...)
	}
	return filter.NewSpec(true, includes, excludes)
}

// bindPath binds a required path parameter and writes a 400 on failure.
func (s *Server) bindPath(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
			fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
		return "", false
	}
	return v, true
}
