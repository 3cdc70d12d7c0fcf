package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/model"
)

func TestLoadContract_Embedded(t *testing.T) {
	contract, err := client.LoadContract(context.Background(), nil)
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	got := contract.Endpoints()
	want := []client.Endpoint{
		{OperationID: "createUser", Method: http.MethodPost, Path: "/create-user", Summary: "Register a user by roll number."},
		{OperationID: "getForm", Method: http.MethodGet, Path: "/get-form", Summary: "Fetch the form structure assigned to a roll number."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("endpoints mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadContract_MissingOperation(t *testing.T) {
	doc := []byte(`
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /get-form:
    get:
      operationId: getForm
      responses:
        "200": {description: ok}
`)
	if _, err := client.LoadContract(context.Background(), doc); err == nil {
		t.Fatalf("expected missing createUser error")
	}
}

func TestClient_GetForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/get-form" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("rollNumber"); got != "R 1" {
			t.Errorf("unexpected rollNumber %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"ok","form":{"formTitle":"T","formId":"f","version":"1","sections":[{"sectionId":1,"title":"S","description":"","fields":[{"fieldId":"a","type":"text","label":"A","required":true,"dataTestId":"a"}]}]}}`)
	}))
	defer srv.Close()

	c, err := client.New(srv.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	structure, err := c.FetchForm(context.Background(), "R 1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if structure.ID != "f" || structure.Sections[0].Fields[0].Kind != model.FieldKindText {
		t.Fatalf("unexpected structure %+v", structure)
	}
}

func TestClient_CreateUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/create-user" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		var user model.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			t.Errorf("decode: %v", err)
		}
		if user.RollNumber != "R1" || user.Name != "Ada" {
			t.Errorf("unexpected user %+v", user)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"User created successfully"}`)
	}))
	defer srv.Close()

	c, err := client.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	msg, err := c.CreateUser(context.Background(), model.User{RollNumber: "R1", Name: "Ada"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if msg != "User created successfully" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestClient_APIError(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"service message", http.StatusConflict, `{"message":"User already exists"}`, "User already exists"},
		{"no body", http.StatusInternalServerError, ``, "HTTP error! status: 500"},
		{"non json", http.StatusBadGateway, `<html>bad</html>`, "HTTP error! status: 502"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c, err := client.New(srv.URL)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = c.CreateUser(context.Background(), model.User{RollNumber: "R1", Name: "Ada"})
			var apiErr *client.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != tc.status || apiErr.Message != tc.message || err.Error() != tc.message {
				t.Fatalf("unexpected error %+v", apiErr)
			}
		})
	}
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "::"} {
		if _, err := client.New(raw); err == nil {
			t.Fatalf("%q: expected error", raw)
		}
	}
}
