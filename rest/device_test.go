// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"
)

// fakeDevice emulates the REST API of a device with in-memory menus
type fakeDevice struct {
	mu sync.Mutex

	username string
	password string

	nextID int
	menus  map[string][]map[string]string

	// unavailable answers the next n requests with 503
	unavailable int

	// defaults are merged into every record added to a menu
	defaults map[string]map[string]string

	// onAdd runs after a record was added, with the lock held
	onAdd func(d *fakeDevice, menu string)

	requests []string
}

func newFakeDevice(t *testing.T) (*fakeDevice, *httptest.Server) {
	t.Helper()

	d := &fakeDevice{
		username: "admin",
		password: "secret",
		nextID:   1,
		menus:    make(map[string][]map[string]string),
		defaults: make(map[string]map[string]string),
	}

	router := mux.NewRouter()
	router.HandleFunc("/rest/{menu:.+}/{command}", d.handle).Methods(http.MethodPost)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return d, server
}

func (d *fakeDevice) seed(menu string, items ...map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, item := range items {
		d.insert(menu, item)
	}
}

// insert adds a record; the lock must be held
func (d *fakeDevice) insert(menu string, item map[string]string) string {
	id := fmt.Sprintf("*%X", d.nextID)
	d.nextID++
	rec := map[string]string{".id": id}
	for k, v := range d.defaults[menu] {
		rec[k] = v
	}
	for k, v := range item {
		rec[k] = v
	}
	d.menus[menu] = append(d.menus[menu], rec)
	return id
}

func (d *fakeDevice) count(menu string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.menus[menu])
}

func (d *fakeDevice) requestLog() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.requests...)
}

func (d *fakeDevice) handle(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	vars := mux.Vars(r)
	menu := "/" + vars["menu"]
	command := vars["command"]
	d.requests = append(d.requests, menu+"/"+command)

	if d.unavailable > 0 {
		d.unavailable--
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": 503, "message": "Service Unavailable"})
		return
	}

	user, pass, ok := r.BasicAuth()
	if !ok || user != d.username || pass != d.password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": 401, "message": "Unauthorized"})
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil || !gjson.ValidBytes(raw) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": 400, "message": "Bad Request", "detail": "invalid JSON"})
		return
	}
	body := gjson.ParseBytes(raw)

	switch command {
	case "print":
		d.print(w, menu, body)
	case "add":
		d.add(w, menu, body)
	case "set":
		d.set(w, menu, body)
	case "remove":
		d.remove(w, menu, body)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": 400, "message": "Bad Request", "detail": "no such command"})
	}
}

func (d *fakeDevice) print(w http.ResponseWriter, menu string, body gjson.Result) {
	var queries [][2]string
	for _, q := range body.Get(`\.query`).Array() {
		k, v, _ := strings.Cut(q.String(), "=")
		queries = append(queries, [2]string{k, v})
	}
	var proplist []string
	for _, p := range body.Get(`\.proplist`).Array() {
		proplist = append(proplist, p.String())
	}

	out := make([]map[string]string, 0)
	for _, rec := range d.menus[menu] {
		match := true
		for _, q := range queries {
			if rec[q[0]] != q[1] {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if len(proplist) == 0 {
			out = append(out, rec)
			continue
		}
		projected := make(map[string]string, len(proplist))
		for _, p := range proplist {
			if v, ok := rec[p]; ok {
				projected[p] = v
			}
		}
		out = append(out, projected)
	}
	writeJSON(w, http.StatusOK, out)
}

func (d *fakeDevice) add(w http.ResponseWriter, menu string, body gjson.Result) {
	item := make(map[string]string)
	body.ForEach(func(k, v gjson.Result) bool {
		item[k.String()] = v.String()
		return true
	})
	if addr, ok := item["address"]; ok {
		for _, rec := range d.menus[menu] {
			if rec["address"] == addr {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"error": 400, "message": "Bad Request", "detail": "failure: already have such entry"})
				return
			}
		}
	}
	id := d.insert(menu, item)
	if d.onAdd != nil {
		d.onAdd(d, menu)
	}
	writeJSON(w, http.StatusCreated, map[string]string{"ret": id})
}

func (d *fakeDevice) set(w http.ResponseWriter, menu string, body gjson.Result) {
	id := body.Get(`\.id`).String()
	for _, rec := range d.menus[menu] {
		if rec[".id"] != id {
			continue
		}
		body.ForEach(func(k, v gjson.Result) bool {
			rec[k.String()] = v.String()
			return true
		})
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": 404, "message": "Not Found", "detail": "no such item"})
}

func (d *fakeDevice) remove(w http.ResponseWriter, menu string, body gjson.Result) {
	id := body.Get(`\.id`).String()
	items := d.menus[menu]
	for i, rec := range items {
		if rec[".id"] == id {
			d.menus[menu] = append(items[:i], items[i+1:]...)
			writeJSON(w, http.StatusOK, []any{})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": 404, "message": "Not Found", "detail": "no such item"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // test server
}
