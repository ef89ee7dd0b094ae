package handlers

import (
	"net/http"

	"github.com/SstealzZ/LinkStart/internal/httpserver/deps"
)

type serviceView struct {
	ID        string
	Name      string
	PublicIP  string
	PrivateIP string
	Status    string
}

type dashboardView struct {
	AutoRefresh bool
	Username    string
	Online      int
	Total       int
	DeleteArmed bool
	SeedImport  bool
	Services    []serviceView
	Error       string
}

func dashboardData(d deps.Deps, errMsg string) dashboardView {
	gen := d.Collection.Generation()
	list := d.Collection.Services()

	views := make([]serviceView, 0, len(list))
	for _, svc := range list {
		views = append(views, serviceView{
			ID:        svc.ID,
			Name:      svc.Name,
			PublicIP:  svc.PublicIP,
			PrivateIP: svc.PrivateIP,
			Status:    string(d.Poller.Status(gen, svc)),
		})
	}

	return dashboardView{
		AutoRefresh: true,
		Username:    d.Session.Username(),
		Online:      d.Collection.Counter().Value(),
		Total:       len(list),
		DeleteArmed: d.Collection.DeleteArmed(),
		SeedImport:  d.SeedFile != "",
		Services:    views,
		Error:       errMsg,
	}
}

func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, d.Logger, "dashboard", dashboardData(d, r.URL.Query().Get("err")))
	}
}
