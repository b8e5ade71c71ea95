// internal/api/handlers.go
//
// Route handlers: decode, call the core, encode.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/seonet/internal/actor"
	"github.com/yanizio/seonet/internal/audit"
	"github.com/yanizio/seonet/internal/domain"
	"github.com/yanizio/seonet/internal/mutation"
	"github.com/yanizio/seonet/internal/network"
	"github.com/yanizio/seonet/internal/notify"
	"github.com/yanizio/seonet/internal/structure"
)

func pathID(r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func badID(w http.ResponseWriter, name string) {
	writeError(w, &structure.ValidationError{Field: name, Reason: "must be a positive integer"})
}

//
// domains
//

func (a *API) listDomains(w http.ResponseWriter, r *http.Request) {
	rows, err := domain.All(r.Context(), a.DB)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) createDomain(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Domain == "" {
		writeError(w, &structure.ValidationError{Field: "domain", Reason: "required"})
		return
	}
	rec := &domain.Record{Domain: in.Domain}
	if err := domain.Create(r.Context(), a.DB, rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

//
// networks
//

func (a *API) listNetworks(w http.ResponseWriter, r *http.Request) {
	rows, err := network.All(r.Context(), a.DB)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) createNetwork(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeError(w, &structure.ValidationError{Field: "name", Reason: "required"})
		return
	}
	rec := &network.Record{Name: in.Name, Description: in.Description}
	if err := network.Create(r.Context(), a.DB, rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) renameNetwork(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "networkID")
	if !ok {
		badID(w, "networkID")
		return
	}
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeError(w, &structure.ValidationError{Field: "name", Reason: "required"})
		return
	}
	if err := network.Rename(r.Context(), a.DB, id, in.Name, in.Description); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

func (a *API) deleteNetwork(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "networkID")
	if !ok {
		badID(w, "networkID")
		return
	}
	if err := network.SoftDelete(r.Context(), a.DB, id); err != nil {
		writeError(w, err)
		return
	}
	a.Reports.Invalidate(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

//
// read paths
//

func (a *API) tierReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "networkID")
	if !ok {
		badID(w, "networkID")
		return
	}
	rep, err := a.Reports.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (a *API) listChangeLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "networkID")
	if !ok {
		badID(w, "networkID")
		return
	}

	q := r.URL.Query()
	f := audit.Filters{
		ActorEmail:    q.Get("actor"),
		ActionType:    audit.ActionType(q.Get("action")),
		NodeSubstring: q.Get("node"),
	}
	if s := q.Get("from"); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			f.From = &ts
		}
	}
	if s := q.Get("to"); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			f.To = &ts
		}
	}

	rows, err := audit.List(r.Context(), a.DB, id, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) listNotifications(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "networkID")
	if !ok {
		badID(w, "networkID")
		return
	}
	rows, err := notify.ByNetwork(r.Context(), a.DB, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) markRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "notificationID")
	if !ok {
		badID(w, "notificationID")
		return
	}
	if err := notify.MarkRead(r.Context(), a.DB, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (a *API) markAllRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "networkID")
	if !ok {
		badID(w, "networkID")
		return
	}
	if err := notify.MarkAllRead(r.Context(), a.DB, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

//
// mutations
//

func (a *API) createNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "networkID")
	if !ok {
		badID(w, "networkID")
		return
	}

	var in mutation.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, &structure.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	in.NetworkID = id
	in.Actor, _ = actor.Email(r.Context())

	e, err := a.Protocol.CreateNode(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (a *API) updateNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "entryID")
	if !ok {
		badID(w, "entryID")
		return
	}

	var in mutation.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, &structure.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	in.EntryID = id
	in.Actor, _ = actor.Email(r.Context())

	e, err := a.Protocol.UpdateNode(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (a *API) deleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "entryID")
	if !ok {
		badID(w, "entryID")
		return
	}

	var in struct {
		ChangeNote string `json:"change_note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, &structure.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	email, _ := actor.Email(r.Context())

	res, err := a.Protocol.DeleteNode(r.Context(), id, in.ChangeNote, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) switchMain(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "networkID")
	if !ok {
		badID(w, "networkID")
		return
	}

	var in struct {
		NewMainEntryID uint64 `json:"new_main_entry_id"`
		ChangeNote     string `json:"change_note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.NewMainEntryID == 0 {
		writeError(w, &structure.ValidationError{Field: "new_main_entry_id", Reason: "required"})
		return
	}
	email, _ := actor.Email(r.Context())

	res, err := a.Protocol.SwitchMainTarget(r.Context(), id, in.NewMainEntryID, in.ChangeNote, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
