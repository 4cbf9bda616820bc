package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"eld_tracker/internal/hos"
	"eld_tracker/internal/models"
	"eld_tracker/internal/service"
)

func TestCreateDriver_Success(t *testing.T) {
	drivers := &mockDrivers{driver: models.Driver{
		ID:       "d1",
		Name:     "Jordan Ellis",
		Timezone: "America/Chicago",
		HOSRule:  models.Rule70Hours8Days,
	}}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Drivers: drivers}
	r := newTestRouter(s)

	body := `{"name":"Jordan Ellis","timezone":"America/Chicago","hos_rule_type":"70_8"}`
	w := doRequest(r, http.MethodPost, "/api/v1/drivers", "valid", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if drivers.lastCreate.Name != "Jordan Ellis" || drivers.lastCreate.Timezone != "America/Chicago" {
		t.Fatalf("wrong params: %+v", drivers.lastCreate)
	}

	var d models.Driver
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.ID != "d1" {
		t.Fatalf("bad response: %+v", d)
	}
}

func TestCreateDriver_RequiresAuth(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Drivers: &mockDrivers{}}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodPost, "/api/v1/drivers", "", `{"name":"x"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestCreateDriver_ValidationErrorsMapTo400(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Drivers: &mockDrivers{createErr: service.ErrBadRuleVariant}}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodPost, "/api/v1/drivers", "valid", `{"name":"x","hos_rule_type":"80_9"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestGetDriver_NotFound(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Drivers: &mockDrivers{getErr: hos.ErrUnknownDriver}}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/drivers/ghost", "valid", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
