package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/SstealzZ/LinkStart/internal/domain"
	"github.com/SstealzZ/LinkStart/internal/httpserver/deps"
	"github.com/SstealzZ/LinkStart/internal/logger"
	"github.com/SstealzZ/LinkStart/internal/services"
	"github.com/SstealzZ/LinkStart/internal/sources/seedfile"
	"github.com/go-chi/chi/v5"
)

// redirectHome follows the POST/redirect/GET pattern; a non-empty errMsg
// surfaces on the next dashboard render.
func redirectHome(w http.ResponseWriter, r *http.Request, errMsg string) {
	target := "/"
	if errMsg != "" {
		target = "/?err=" + url.QueryEscape(errMsg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrValidation):
		return "All fields are required."
	case errors.Is(err, services.ErrNoToken):
		return "Session expired. Please log in again."
	default:
		return "The server could not complete the request."
	}
}

func AddService(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		draft := domain.Service{
			Name:      strings.TrimSpace(r.PostFormValue("name")),
			PublicIP:  strings.TrimSpace(r.PostFormValue("public_ip")),
			PrivateIP: strings.TrimSpace(r.PostFormValue("private_ip")),
		}

		created, err := d.Collection.Add(r.Context(), draft)
		if err != nil {
			d.Logger.Warn("add service failed",
				logger.String("name", draft.Name), logger.Error(err))
			redirectHome(w, r, userMessage(err))
			return
		}

		d.Logger.Info("service added",
			logger.String("id", created.ID), logger.String("name", created.Name))
		redirectHome(w, r, "")
	}
}

func DeleteService(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}
		if !d.Collection.DeleteArmed() {
			// Deletion only works while edit mode is on.
			redirectHome(w, r, "Enable edit mode before deleting.")
			return
		}

		if err := d.Collection.Delete(r.Context(), id); err != nil {
			d.Logger.Warn("delete service failed",
				logger.String("id", id), logger.Error(err))
			redirectHome(w, r, userMessage(err))
			return
		}

		d.Logger.Info("service deleted", logger.String("id", id))
		redirectHome(w, r, "")
	}
}

func ToggleDeleteMode(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Collection.DeleteArmed() {
			d.Collection.DisarmDelete()
		} else {
			d.Collection.ArmDelete()
		}
		redirectHome(w, r, "")
	}
}

// ImportServices bulk-creates services from the configured YAML seed file.
// Entries missing a field are skipped, already imported names are re-sent
// as-is (the remote API owns deduplication).
func ImportServices(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SeedFile == "" {
			http.Error(w, "no seed file configured", http.StatusNotFound)
			return
		}

		cfg, err := seedfile.NewLoader(d.SeedFile).Load()
		if err != nil {
			d.Logger.Error("seed file load failed",
				logger.String("path", d.SeedFile), logger.Error(err))
			redirectHome(w, r, "Could not read the seed file.")
			return
		}

		drafts := seedfile.NewMapper().MapDrafts(cfg, d.Session.Username())
		imported, failed := 0, 0
		for _, draft := range drafts {
			if _, err := d.Collection.Add(r.Context(), draft); err != nil {
				failed++
				d.Logger.Warn("seed import entry failed",
					logger.String("name", draft.Name), logger.Error(err))
				continue
			}
			imported++
		}

		d.Logger.Info("seed import done",
			logger.Int("imported", imported), logger.Int("failed", failed))
		if failed > 0 {
			redirectHome(w, r, "Some seed entries could not be imported.")
			return
		}
		redirectHome(w, r, "")
	}
}

// Refresh asks the background refresher for an immediate collection fetch.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.Refresh <- struct{}{}:
			d.Logger.Info("manual refresh triggered",
				logger.String("remote_ip", r.RemoteAddr))
		default:
			d.Logger.Warn("refresh already in progress",
				logger.String("remote_ip", r.RemoteAddr))
		}
		redirectHome(w, r, "")
	}
}
