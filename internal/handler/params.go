package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

var pathParamOptions = runtime.BindStyledParameterOptions{
	ParamLocation: runtime.ParamLocationPath,
	Explode:       false,
	Required:      true,
}

// pathUUID binds a uuid path parameter. On failure it writes a 400 and
// reports false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id, pathParamOptions); err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(name))
		return id, false
	}
	return id, true
}

// pathInt binds an integer path parameter. Range checks are left to the
// service so an out-of-range day reads as a missing resource.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	var n int
	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &n, pathParamOptions); err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(name))
		return 0, false
	}
	return n, true
}

// itineraryDayParams binds the {id} and {dayIndex} path parameters shared by
// every day-scoped endpoint.
func itineraryDayParams(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, int, bool) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return id, 0, false
	}
	day, ok := pathInt(w, r, "dayIndex")
	return id, day, ok
}

// queryParam binds an optional form-style query parameter into dest, which
// must be a pointer to a pointer (e.g. **int).
func queryParam(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(name))
		return false
	}
	return true
}
