package iamlite

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/wcharczuk/roleprov/internal/httputil"
)

// RoleInfo is the admin view of a role.
type RoleInfo struct {
	AccountID                string
	RoleName                 string
	RoleID                   string
	Arn                      string
	Path                     string
	Description              string `json:",omitempty"`
	MaxSessionDuration       int32
	AssumeRolePolicyDocument string
	Created                  time.Time
	LastModified             time.Time
}

// Router returns a handler that serves the admin endpoints and hands every
// other request to the query api.
func (s *Server) Router() http.Handler {
	router := httprouter.New()
	router.GET("/admin/accounts", s.adminGetAccounts)
	router.GET("/admin/account/:account_id/roles", s.adminGetRoles)
	router.GET("/admin/account/:account_id/role/:role_name", s.adminGetRole)
	router.HandleMethodNotAllowed = false
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.NotFound = s
	return router
}

func (s *Server) adminGetAccounts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, slices.Collect(s.accounts.EachAccount()))
}

func (s *Server) adminGetRoles(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roles, ok := s.accounts.GetRoles(ps.ByName("account_id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	output := []RoleInfo{}
	for role := range roles.EachRole() {
		output = append(output, asRoleInfo(role))
	}
	writeJSON(w, output)
}

func (s *Server) adminGetRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roles, ok := s.accounts.GetRoles(ps.ByName("account_id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	role, err := roles.GetRole(ps.ByName("role_name"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, asRoleInfo(role))
}

func asRoleInfo(role Role) RoleInfo {
	return RoleInfo{
		AccountID:                role.AccountID,
		RoleName:                 role.Name,
		RoleID:                   role.ID,
		Arn:                      role.ARN,
		Path:                     role.Path,
		Description:              role.Description,
		MaxSessionDuration:       role.MaxSessionDuration,
		AssumeRolePolicyDocument: role.AssumeRolePolicyDocument,
		Created:                  role.Created,
		LastModified:             role.LastModified,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set(httputil.HeaderContentType, httputil.ContentTypeApplicationJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
