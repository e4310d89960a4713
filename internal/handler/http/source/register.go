package source

import (
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/auth"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

// Register registers all source-related HTTP handlers with the given mux.
// Listing and detail are public; registry mutations require
// authentication via the auth middleware.
func Register(mux *http.ServeMux, svc *srcUC.Service) {
	mux.Handle("GET    /sources", ListHandler{svc})
	mux.Handle("GET    /sources/", GetHandler{svc})

	mux.Handle("POST   /sources", auth.Authz(CreateHandler{svc}))
	mux.Handle("PUT    /sources/{key}/enabled", auth.Authz(SetEnabledHandler{svc}))
	mux.Handle("PUT    /sources/", auth.Authz(UpdateHandler{svc}))
	mux.Handle("DELETE /sources/", auth.Authz(DeleteHandler{svc}))
}
