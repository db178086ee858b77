package store

import (
	"net/url"

	"github.com/alexanderramin/chantier/internal/domain"
)

// Resource describes one REST collection.
type Resource struct {
	// Path is the collection segment, e.g. "worksites".
	Path string
	// Parent names the owning entity for server-side filtering; reads
	// scoped to a parent add "?<Parent>_id=<id>".
	Parent string
}

var (
	Projects  = Resource{Path: "projects"}
	Worksites = Resource{Path: "worksites", Parent: "project"}
	Lots      = Resource{Path: "lots", Parent: "worksite"}
	Tasks     = Resource{Path: "tasks", Parent: "lot"}
	Budgets   = Resource{Path: "budgets", Parent: "project"}
	Alerts    = Resource{Path: "alerts", Parent: "project"}
	Reports   = Resource{Path: "reports", Parent: "project"}
	Suppliers = Resource{Path: "suppliers"}
	Resources = Resource{Path: "resources"}
	AIModels  = Resource{Path: "ai-models"}
	Users     = Resource{Path: "users"}
)

// All lists every known resource.
var All = []Resource{Projects, Worksites, Lots, Tasks, Budgets, Alerts, Reports, Suppliers, Resources, AIModels, Users}

// ListPaths returns the collection paths whose reads the transport must
// normalize to lists.
func ListPaths() []string {
	out := make([]string, len(All))
	for i, r := range All {
		out[i] = r.Path
	}
	return out
}

func (r Resource) collection(parentID domain.ID) string {
	endpoint := "/" + r.Path + "/"
	if r.Parent != "" && parentID != "" {
		endpoint += "?" + url.Values{r.Parent + "_id": {parentID.String()}}.Encode()
	}
	return endpoint
}

func (r Resource) item(id domain.ID) string {
	return "/" + r.Path + "/" + url.PathEscape(id.String()) + "/"
}
