package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, srv.Client(), zerolog.Nop()), srv
}

func TestListDefault_SendsAuthAndPagingParameters(t *testing.T) {
	var got map[string]string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"action":      q.Get("action"),
			"email":       q.Get("email"),
			"password":    q.Get("password"),
			"currentPage": q.Get("currentPage"),
			"sizeOnPage":  q.Get("sizeOnPage"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"email":"x@y.com","firstName":"X"}],"number":2,"totalPages":3,"totalElements":11}`))
	})
	defer srv.Close()

	page, err := client.ListDefault(context.Background(), Credentials{Email: "a@b.com", Password: "pw"}, 2, 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := map[string]string{
		"action":      "getAllUsersOrderedByDefault",
		"email":       "a@b.com",
		"password":    "pw",
		"currentPage": "2",
		"sizeOnPage":  "4",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("query %s = %q, want %q", k, got[k], v)
		}
	}

	if len(page.Content) != 1 || page.Content[0].Email != "x@y.com" {
		t.Fatalf("unexpected page content: %+v", page.Content)
	}
	if page.TotalPages != 3 || page.TotalElements != 11 {
		t.Fatalf("unexpected page math: %+v", page)
	}
}

func TestListDefault_RejectsNonSuccess(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	defer srv.Close()

	_, err := client.ListDefault(context.Background(), Credentials{}, 0, 5)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed, got %v", err)
	}
}

func TestSearch_EmptyTermNeverIssuesRequest(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("request issued for empty search term")
	})
	defer srv.Close()

	_, err := client.Search(context.Background(), Credentials{}, "   ", SearchLastName, 0, 5)
	if !errors.Is(err, ErrEmptySearchTerm) {
		t.Fatalf("want ErrEmptySearchTerm, got %v", err)
	}
}

func TestSearch_SendsTermAndOption(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "getAllUsersFoundByParameter" {
			t.Fatalf("action = %q", q.Get("action"))
		}
		if q.Get("searchTerm") != "Doe" || q.Get("selectedSearchOption") != "lastName" {
			t.Fatalf("search params = %q / %q", q.Get("searchTerm"), q.Get("selectedSearchOption"))
		}
		_, _ = w.Write([]byte(`{"content":[]}`))
	})
	defer srv.Close()

	if _, err := client.Search(context.Background(), Credentials{}, "Doe", SearchLastName, 0, 5); err != nil {
		t.Fatalf("search: %v", err)
	}
}

func TestLogin_NormalizesEveryFailure(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusBadRequest, http.StatusInternalServerError} {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.Login(context.Background(), "a@b.com", "wrong")
		srv.Close()
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("status %d: want ErrInvalidCredentials, got %v", status, err)
		}
	}
}

func TestLogin_ParsesIdentity(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"email":"a@b.com","password":"pw","firstName":"Ana","roles":[{"name":"ADMIN"}]}`))
	})
	defer srv.Close()

	auth, err := client.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if auth.Email != "a@b.com" || auth.FirstName != "Ana" {
		t.Fatalf("unexpected identity: %+v", auth)
	}
	if len(auth.Roles) != 1 || auth.Roles[0].Name != "ADMIN" {
		t.Fatalf("unexpected roles: %+v", auth.Roles)
	}
}

func TestRegister_ConflictSurfacesServerMessage(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusIMUsed)
		_, _ = w.Write([]byte("An account with this email already exists."))
	})
	defer srv.Close()

	err := client.Register(context.Background(), RegisterRequest{Email: "a@b.com"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("want ConflictError, got %v", err)
	}
	if conflict.Message != "An account with this email already exists." {
		t.Fatalf("message = %q", conflict.Message)
	}
}

func TestRegister_OtherFailuresAreGeneric(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("stack trace details"))
	})
	defer srv.Close()

	err := client.Register(context.Background(), RegisterRequest{Email: "a@b.com"})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed, got %v", err)
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		t.Fatalf("500 must not surface server text")
	}
}

func TestDelete_SendsTarget(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("method = %s", r.Method)
		}
		if r.URL.Query().Get("userToDeleteEmail") != "victim@b.com" {
			t.Fatalf("target = %q", r.URL.Query().Get("userToDeleteEmail"))
		}
	})
	defer srv.Close()

	if err := client.Delete(context.Background(), Credentials{Email: "admin@b.com", Password: "pw"}, "victim@b.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestEditProfile_SendsQueryAndBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("method = %s", r.Method)
		}
		if r.URL.Query().Get("emailUserToChange") != "a@b.com" {
			t.Fatalf("target = %q", r.URL.Query().Get("emailUserToChange"))
		}
		_, _ = w.Write([]byte(`{"email":"new@b.com","firstName":"","password":"","roles":[{"name":"USER"}]}`))
	})
	defer srv.Close()

	auth, err := client.EditProfile(context.Background(), Credentials{Email: "a@b.com", Password: "pw"},
		"a@b.com", EditProfileRequest{Email: "new@b.com"})
	if err != nil {
		t.Fatalf("edit profile: %v", err)
	}
	if auth.Email != "new@b.com" || auth.FirstName != "" {
		t.Fatalf("unexpected response: %+v", auth)
	}
}

func TestEditPhoneNumber_ReturnsFragment(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("method = %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("emailUserToChange") != "u@b.com" || q.Get("phoneNumberToChange") != "+111" {
			t.Fatalf("params = %v", q)
		}
		_, _ = w.Write([]byte(`{"email":"u@b.com","phoneNumber":"+111"}`))
	})
	defer srv.Close()

	rec, err := client.EditPhoneNumber(context.Background(), Credentials{}, "u@b.com", "+111")
	if err != nil {
		t.Fatalf("edit phone: %v", err)
	}
	if rec.PhoneNumber != "+111" {
		t.Fatalf("fragment = %+v", rec)
	}
}
